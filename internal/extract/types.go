package extract

// Intent is the main purpose of a sales-order email.
type Intent string

const (
	IntentPlaceOrder              Intent = "place_order"
	IntentInquireAvailability     Intent = "inquire_availability"
	IntentRequestInvoice          Intent = "request_invoice"
	IntentConfirmDeliveryDate     Intent = "confirm_delivery_date"
	IntentChangeOrder             Intent = "change_order"
	IntentCancelOrder             Intent = "cancel_order"
	IntentInquireShippingStatus   Intent = "inquire_shipping_status"
	IntentUpdateShippingInfo      Intent = "update_shipping_info"
	IntentFollowUp                Intent = "follow_up"
	IntentGeneralInquiry          Intent = "general_inquiry"
	IntentComplaint               Intent = "complaint"
	IntentRequestQuote            Intent = "request_quote"
	IntentSendPaymentConfirmation Intent = "send_payment_confirmation"
	IntentSubmitDocuments         Intent = "submit_documents"
)

var validIntents = map[Intent]struct{}{
	IntentPlaceOrder:              {},
	IntentInquireAvailability:     {},
	IntentRequestInvoice:          {},
	IntentConfirmDeliveryDate:     {},
	IntentChangeOrder:             {},
	IntentCancelOrder:             {},
	IntentInquireShippingStatus:   {},
	IntentUpdateShippingInfo:      {},
	IntentFollowUp:                {},
	IntentGeneralInquiry:          {},
	IntentComplaint:               {},
	IntentRequestQuote:            {},
	IntentSendPaymentConfirmation: {},
	IntentSubmitDocuments:         {},
}

// ValidIntent reports whether i is one of the schema's allowed intents
func ValidIntent(i Intent) bool {
	_, ok := validIntents[i]
	return ok
}

// Product is one product mentioned in an email.
type Product struct {
	ProductName string   `json:"product_name"`
	Model       string   `json:"model,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// SalesOrder is the canonical entity record extracted from one cleaned
// email. It is either fully present (extraction succeeded) or absent; no
// partial record is ever persisted.
type SalesOrder struct {
	Intent               Intent    `json:"intent"`
	CustomerOrganization string    `json:"customer_organization"`
	ProducerOrganization string    `json:"producer_organization"`
	People               []string  `json:"people"`
	DateTime             string    `json:"date_time,omitempty"`
	Products             []Product `json:"products"`
	MonetaryValues       []string  `json:"monetary_values"`
	Addresses            []string  `json:"addresses"`
	PhoneNumbers         []string  `json:"phone_numbers"`
	EmailAddresses       []string  `json:"email_addresses"`
}
