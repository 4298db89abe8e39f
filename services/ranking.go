package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// AverageRating is the mean review rating, 0 without reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// SortByRating orders salons by descending average rating. Ties keep input order.
func SortByRating(salons []models.Salon) {
	sort.SliceStable(salons, func(i, j int) bool {
		return AverageRating(salons[i].Reviews) > AverageRating(salons[j].Reviews)
	})
}

// SortByDistance orders salons nearest first from (lat, lng). Ties keep input order.
func SortByDistance(salons []models.Salon, lat, lng float64) {
	sort.SliceStable(salons, func(i, j int) bool {
		return Haversine(lat, lng, salons[i].Latitude, salons[i].Longitude) <
			Haversine(lat, lng, salons[j].Latitude, salons[j].Longitude)
	})
}

// Search keeps salons whose name, location or any service name contains
// query, case-insensitively. An empty query keeps everything.
func Search(salons []models.Salon, query string) []models.Salon {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return salons
	}
	out := make([]models.Salon, 0, len(salons))
	for _, salon := range salons {
		if strings.Contains(strings.ToLower(salon.Name), query) ||
			strings.Contains(strings.ToLower(salon.Location), query) ||
			offersMatching(salon, query) {
			out = append(out, salon)
		}
	}
	return out
}

func offersMatching(salon models.Salon, query string) bool {
	for _, svc := range salon.Services {
		if strings.Contains(strings.ToLower(svc.Name), query) {
			return true
		}
	}
	return false
}

// FilterByServices keeps salons offering every named service.
func FilterByServices(salons []models.Salon, names []string) []models.Salon {
	if len(names) == 0 {
		return salons
	}
	out := make([]models.Salon, 0, len(salons))
	for _, salon := range salons {
		offered := make(map[string]bool, len(salon.Services))
		for _, svc := range salon.Services {
			offered[strings.ToLower(svc.Name)] = true
		}
		all := true
		for _, name := range names {
			if !offered[strings.ToLower(strings.TrimSpace(name))] {
				all = false
				break
			}
		}
		if all {
			out = append(out, salon)
		}
	}
	return out
}

const (
	SortRating   = "rating"
	SortDistance = "distance"
)

type SalonQuery struct {
	Text     string
	Services []string
	Sort     string
	// Origin is required for SortDistance.
	Origin *Coordinate
}

type Coordinate struct {
	Lat float64
	Lng float64
}

type SalonSummary struct {
	models.Salon
	AverageRating float64  `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
}

// Directory serves the salon listing.
type Directory struct {
	catalog store.CatalogStore
}

func NewDirectory(catalog store.CatalogStore) *Directory {
	return &Directory{catalog: catalog}
}

func (d *Directory) List(ctx context.Context, q SalonQuery) ([]SalonSummary, error) {
	salons, err := d.catalog.ListSalons(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list salons", Err: err}
	}

	salons = FilterByServices(Search(salons, q.Text), q.Services)
	switch q.Sort {
	case SortRating:
		SortByRating(salons)
	case SortDistance:
		if q.Origin == nil {
			return nil, invalid("missing_origin", "distance sort needs lat and lng")
		}
		SortByDistance(salons, q.Origin.Lat, q.Origin.Lng)
	}

	out := make([]SalonSummary, 0, len(salons))
	for _, salon := range salons {
		summary := SalonSummary{
			Salon:         salon,
			AverageRating: AverageRating(salon.Reviews),
			ReviewCount:   len(salon.Reviews),
		}
		if q.Origin != nil {
			km := Haversine(q.Origin.Lat, q.Origin.Lng, salon.Latitude, salon.Longitude)
			summary.DistanceKm = &km
		}
		out = append(out, summary)
	}
	return out, nil
}

func (d *Directory) Get(ctx context.Context, id string) (SalonSummary, error) {
	salon, err := d.catalog.GetSalon(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return SalonSummary{}, err
	}
	if err != nil {
		return SalonSummary{}, &StorageError{Op: "get salon", Err: err}
	}
	return SalonSummary{
		Salon:         salon,
		AverageRating: AverageRating(salon.Reviews),
		ReviewCount:   len(salon.Reviews),
	}, nil
}
