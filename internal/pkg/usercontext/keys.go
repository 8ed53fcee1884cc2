package usercontext

// Session and Locals keys shared between the auth controllers and the user
// context middleware. KeyAccountID holds the game account id, not a separate
// web user id.
const (
	AuthKey          = "authenticated"
	KeyAccountID     = "account_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "isAdmin"
	KeyFromProtected = "from_protected"
)
