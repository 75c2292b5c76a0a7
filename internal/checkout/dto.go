package checkout

// SubmitRequest is the checkout form posted by the storefront. The cart
// contents come from the server-side cart session, not the request body.
type SubmitRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=200"`
	Phone        string `json:"phone" validate:"required,max=40"`
	Address      string `json:"address" validate:"required,max=500"`
	DeliveryType string `json:"delivery_type" validate:"required"`
}
