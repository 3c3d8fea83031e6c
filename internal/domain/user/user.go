package user

// User is an authenticated identity. Customers carry a UserID reference back
// to their owning user; the ledger records the user as the acting `user` on
// every transaction. The password hash is persisted under the `password` key.
type User struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password"`
}
