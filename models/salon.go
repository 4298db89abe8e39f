package models

type SalonStatus string

const (
	SalonOpen   SalonStatus = "Open"
	SalonClosed SalonStatus = "Closed"
)

type Salon struct {
	ID        string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string      `gorm:"not null" json:"name"`
	Location  string      `json:"location"`
	Status    SalonStatus `gorm:"type:varchar(10);default:'Open'" json:"status"`
	ImageURL  string      `json:"imageUrl"`
	ImageHint string      `json:"imageHint,omitempty"`
	Gallery   StringList  `gorm:"type:jsonb;default:'[]'" json:"gallery"`
	Phone     string      `json:"phone,omitempty"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`

	Services []Service `gorm:"foreignKey:SalonID" json:"services"`
	Stylists []Stylist `gorm:"foreignKey:SalonID" json:"stylists"`
	Reviews  []Review  `gorm:"foreignKey:SalonID" json:"reviews"`
}

// FindService returns the salon's service with the given id.
func (s *Salon) FindService(id string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// FindStylist returns the salon's stylist with the given id.
func (s *Salon) FindStylist(id string) (Stylist, bool) {
	for _, st := range s.Stylists {
		if st.ID == id {
			return st, true
		}
	}
	return Stylist{}, false
}

// Clone returns a deep copy so callers can't mutate shared catalog data.
func (s Salon) Clone() Salon {
	out := s
	out.Gallery = append(StringList(nil), s.Gallery...)
	out.Services = append([]Service(nil), s.Services...)
	out.Stylists = make([]Stylist, len(s.Stylists))
	for i, st := range s.Stylists {
		st.Portfolio = append(StringList(nil), st.Portfolio...)
		out.Stylists[i] = st
	}
	out.Reviews = append([]Review(nil), s.Reviews...)
	return out
}
