package domain

// Appearance is the page color scheme.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// ParseAppearance returns the appearance named by s, defaulting to light.
func ParseAppearance(s string) Appearance {
	if Appearance(s) == AppearanceDark {
		return AppearanceDark
	}
	return AppearanceLight
}

// Toggle returns the opposite appearance.
func (a Appearance) Toggle() Appearance {
	if a == AppearanceDark {
		return AppearanceLight
	}
	return AppearanceDark
}

// IsDark reports whether the dark scheme is active.
func (a Appearance) IsDark() bool {
	return a == AppearanceDark
}

// DocumentClass is the class set on the <html> element.
func (a Appearance) DocumentClass() string {
	if a.IsDark() {
		return "dark"
	}
	return ""
}

// CustomerType is the category selected on the order form.
type CustomerType string

const (
	CustomerUnset      CustomerType = ""
	CustomerHousehold  CustomerType = "Household"
	CustomerRestaurant CustomerType = "Restaurant"
)

// CustomerTypes lists the selectable categories in display order.
var CustomerTypes = []CustomerType{CustomerHousehold, CustomerRestaurant}

// ParseCustomerType accepts only the known categories; anything else is unset.
func ParseCustomerType(s string) CustomerType {
	switch CustomerType(s) {
	case CustomerHousehold:
		return CustomerHousehold
	case CustomerRestaurant:
		return CustomerRestaurant
	default:
		return CustomerUnset
	}
}

// FieldVisibility says which conditional order-form fields are rendered.
type FieldVisibility struct {
	BusinessName       bool
	DeliveryPreference bool
}

// VisibleFields applies the order-form rules: restaurants name their
// business, households pick a delivery preference, unset shows neither.
func (c CustomerType) VisibleFields() FieldVisibility {
	return FieldVisibility{
		BusinessName:       c == CustomerRestaurant,
		DeliveryPreference: c == CustomerHousehold,
	}
}

// UIState is the per-view state owned by the page handler and handed to the
// templates. It is rebuilt from the request on every render.
type UIState struct {
	Appearance   Appearance
	CustomerType CustomerType
	ShowAck      bool
}

// Fields is a shortcut for s.CustomerType.VisibleFields().
func (s UIState) Fields() FieldVisibility {
	return s.CustomerType.VisibleFields()
}
