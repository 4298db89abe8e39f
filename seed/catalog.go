// Package seed holds the launch catalog of Dakar salons.
package seed

import "github.com/cheikhabdou2024/Dakar-cut/models"

const (
	salonImage    = "https://placehold.co/600x400.png"
	galleryImage  = "https://placehold.co/800x600.png"
	stylistImage  = "https://placehold.co/100x100.png"
	portfolioItem = "https://placehold.co/600x800.png"
)

func gallery() models.StringList {
	return models.StringList{galleryImage, galleryImage, galleryImage}
}

func stylist(id, salonID, name, specialty, bio string) models.Stylist {
	return models.Stylist{
		ID:        id,
		SalonID:   salonID,
		Name:      name,
		Specialty: specialty,
		ImageURL:  stylistImage,
		Bio:       bio,
		Portfolio: models.StringList{portfolioItem, portfolioItem, portfolioItem},
	}
}

// Catalog returns a fresh copy of the seeded salons.
func Catalog() []models.Salon {
	return []models.Salon{
		{
			ID:        "1",
			Name:      "Elegance Coiffure",
			Location:  "Almadies, Dakar",
			Status:    models.SalonOpen,
			ImageURL:  salonImage,
			Gallery:   gallery(),
			Latitude:  14.7456,
			Longitude: -17.5123,
			Reviews: []models.Review{
				{ID: "r1", SalonID: "1", Author: "Fatou Diop", Rating: 5, Comment: "Amazing service! My hair has never looked better."},
				{ID: "r2", SalonID: "1", Author: "Moussa Gueye", Rating: 4, Comment: "Great place, very professional staff."},
			},
			Services: []models.Service{
				{ID: "s1", SalonID: "1", Name: "Men's Haircut", Category: "Coupes", Price: 5000, Duration: 30},
				{ID: "s2", SalonID: "1", Name: "Women's Cut & Style", Category: "Coupes", Price: 15000, Duration: 90},
				{ID: "s3", SalonID: "1", Name: "Braiding", Category: "Tresses", Price: 20000, Duration: 240},
			},
			Stylists: []models.Stylist{
				stylist("st1", "1", "Aminata", "Coloring", "A passionate colorist with 10 years of experience, specializing in balayage and vibrant color transformations."),
				stylist("st2", "1", "Ousmane", "Men's Cuts", "Expert in modern and classic men's grooming. Precision cuts and sharp fades are my signature."),
			},
		},
		{
			ID:        "2",
			Name:      "Dakar Style Masters",
			Location:  "Plateau, Dakar",
			Status:    models.SalonOpen,
			ImageURL:  salonImage,
			Gallery:   gallery(),
			Latitude:  14.6708,
			Longitude: -17.4381,
			Reviews: []models.Review{
				{ID: "r3", SalonID: "2", Author: "Awa Fall", Rating: 5, Comment: "The best braids in town!"},
			},
			Services: []models.Service{
				{ID: "s4", SalonID: "2", Name: "Deep Conditioning Treatment", Category: "Soins", Price: 10000, Duration: 60},
				{ID: "s5", SalonID: "2", Name: "Full Head Color", Category: "Coloration", Price: 25000, Duration: 180},
			},
			Stylists: []models.Stylist{
				stylist("st3", "2", "Khadija", "Braiding", "Master braider with a gentle touch. From intricate cornrows to elegant updos, I bring your vision to life."),
				stylist("st4", "2", "Ibrahim", "Styling", "Creative stylist who loves to craft unique and trendy looks for any occasion."),
			},
		},
		{
			ID:        "3",
			Name:      "Le Prestige Barber",
			Location:  "Mermoz, Dakar",
			Status:    models.SalonClosed,
			ImageURL:  salonImage,
			Gallery:   gallery(),
			Latitude:  14.7086,
			Longitude: -17.4760,
			Reviews: []models.Review{
				{ID: "r4", SalonID: "3", Author: "Cheikh Bamba", Rating: 5, Comment: "Perfect fade every time."},
			},
			Services: []models.Service{
				{ID: "s1", SalonID: "3", Name: "Men's Haircut", Category: "Coupes", Price: 6000, Duration: 45},
				{ID: "s6", SalonID: "3", Name: "Beard Trim", Category: "Coupes", Price: 3000, Duration: 20},
			},
			Stylists: []models.Stylist{
				stylist("st5", "3", "Moussa", "Barbering", "Dedicated barber focused on clean lines and a perfect finish. Your beard is in good hands."),
			},
		},
		{
			ID:        "4",
			Name:      "Femme Chic",
			Location:  "Fann, Dakar",
			Status:    models.SalonOpen,
			ImageURL:  salonImage,
			Gallery:   gallery(),
			Latitude:  14.6937,
			Longitude: -17.4634,
			Reviews: []models.Review{
				{ID: "r5", SalonID: "4", Author: "Mariama Ba", Rating: 4, Comment: "Good service, but a bit pricey."},
				{ID: "r6", SalonID: "4", Author: "Sophie Gomis", Rating: 5, Comment: "I love my new hairstyle! Thank you!"},
			},
			Services: []models.Service{
				{ID: "s2", SalonID: "4", Name: "Women's Cut & Style", Category: "Coupes", Price: 18000, Duration: 90},
				{ID: "s7", SalonID: "4", Name: "Relaxer", Category: "Défrisage", Price: 12000, Duration: 120},
			},
			Stylists: []models.Stylist{
				stylist("st6", "4", "Fatima", "Styling", "I believe in healthy hair first. Let's create a style that's not only beautiful but also sustainable."),
				stylist("st7", "4", "Ndeye", "Chemical Treatments", "Specializing in relaxers, perms, and treatments to manage and beautify all hair types."),
			},
		},
	}
}
