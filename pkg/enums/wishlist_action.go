package enums

// WishlistAction is the decision produced when a wishlist toggle is
// resolved against the current row set.
type WishlistAction string

const (
	WishlistActionAdd    WishlistAction = "add"
	WishlistActionRemove WishlistAction = "remove"
)

// String implements fmt.Stringer.
func (a WishlistAction) String() string {
	return string(a)
}
