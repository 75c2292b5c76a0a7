package enums

import "fmt"

// DeliveryType distinguishes home from office delivery at checkout.
type DeliveryType string

const (
	DeliveryTypeHome   DeliveryType = "home"
	DeliveryTypeOffice DeliveryType = "office"
)

func (d DeliveryType) String() string {
	return string(d)
}

func (d DeliveryType) IsValid() bool {
	switch d {
	case DeliveryTypeHome, DeliveryTypeOffice:
		return true
	default:
		return false
	}
}

// ParseDeliveryType validates and converts a raw string.
func ParseDeliveryType(value string) (DeliveryType, error) {
	dt := DeliveryType(value)
	if !dt.IsValid() {
		return "", fmt.Errorf("invalid delivery type %q", value)
	}
	return dt, nil
}
