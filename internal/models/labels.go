package models

// Roles understood by the platform.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Reservation states.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// News publication states.
const (
	NewsDraft     = "draft"
	NewsPublished = "published"
	NewsArchived  = "archived"
)

var roleLabels = map[string]string{
	RoleAdmin:   "Administrator",
	RoleManager: "Manager",
}

var reservationLabels = map[string]string{
	ReservationPending:   "Pending",
	ReservationConfirmed: "Confirmed",
	ReservationCancelled: "Cancelled",
}

var newsStatusLabels = map[string]string{
	NewsDraft:     "Draft",
	NewsPublished: "Published",
	NewsArchived:  "Archived",
}

var newsCategoryLabels = map[string]string{
	"events":     "Events",
	"promo":      "Promotions",
	"new_menu":   "New menu",
	"restaurant": "About the restaurant",
}

// RoleLabel returns the display name for a role. Unknown roles display as "User".
func (u *User) RoleLabel() string {
	if l, ok := roleLabels[u.Role]; ok {
		return l
	}
	return "User"
}

func (r *Reservation) StatusLabel() string {
	return labelOr(reservationLabels, r.Status)
}

func (n *News) StatusLabel() string {
	return labelOr(newsStatusLabels, n.Status)
}

func (n *News) CategoryLabel() string {
	return labelOr(newsCategoryLabels, n.Category)
}

func labelOr(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// IsReservationStatus reports whether s is a known reservation state.
func IsReservationStatus(s string) bool {
	_, ok := reservationLabels[s]
	return ok
}

func IsNewsStatus(s string) bool {
	_, ok := newsStatusLabels[s]
	return ok
}

func IsNewsCategory(s string) bool {
	_, ok := newsCategoryLabels[s]
	return ok
}
