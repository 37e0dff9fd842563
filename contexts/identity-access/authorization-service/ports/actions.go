package ports

// Scope classifies actions by the rule class that clears them, in evaluation
// precedence order: public, self, admin, owner-or-admin.
type Scope string

const (
	ScopePublic       Scope = "public"
	ScopeSelf         Scope = "self"
	ScopeAdmin        Scope = "admin"
	ScopeOwnerOrAdmin Scope = "owner_or_admin"
)

// Action is a closed policy descriptor. Every protected route dispatches one
// of these through the engine instead of re-deriving its own checks.
type Action struct {
	Name  string
	Scope Scope
}

var (
	ActionRegisterUser  = Action{Name: "user.register", Scope: ScopePublic}
	ActionViewUserFlags = Action{Name: "user.view_flags", Scope: ScopePublic}
	ActionViewCatalog   = Action{Name: "catalog.view", Scope: ScopePublic}
	ActionViewBooking   = Action{Name: "booking.view", Scope: ScopePublic}

	ActionCompleteBuyerSignup = Action{Name: "user.complete_buyer_signup", Scope: ScopeSelf}
	ActionCreateProduct       = Action{Name: "product.create", Scope: ScopeSelf}
	ActionListOwnProducts     = Action{Name: "product.list_own", Scope: ScopeSelf}
	ActionCreateBooking       = Action{Name: "booking.create", Scope: ScopeSelf}
	ActionResolveBooking      = Action{Name: "booking.resolve", Scope: ScopeSelf}
	ActionListOwnOrders       = Action{Name: "booking.list_own", Scope: ScopeSelf}
	ActionCreatePaymentIntent = Action{Name: "payment.create_intent", Scope: ScopeSelf}
	ActionCreatePayment       = Action{Name: "payment.create", Scope: ScopeSelf}

	ActionGrantAdmin            = Action{Name: "user.grant_admin", Scope: ScopeAdmin}
	ActionVerifySeller          = Action{Name: "user.verify_seller", Scope: ScopeAdmin}
	ActionDeleteSeller          = Action{Name: "user.delete_seller", Scope: ScopeAdmin}
	ActionListSellers           = Action{Name: "user.list_sellers", Scope: ScopeAdmin}
	ActionListReportedProducts  = Action{Name: "product.list_reported", Scope: ScopeAdmin}
	ActionDeleteReportedProduct = Action{Name: "product.delete_reported", Scope: ScopeAdmin}

	ActionAdvertiseProduct = Action{Name: "product.advertise", Scope: ScopeOwnerOrAdmin}
	ActionReportProduct    = Action{Name: "product.report", Scope: ScopeOwnerOrAdmin}
	ActionDeleteOwnProduct = Action{Name: "product.delete_own", Scope: ScopeOwnerOrAdmin}
)

func (a Action) IsZero() bool {
	return a.Name == ""
}
