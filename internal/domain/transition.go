package domain

type Transition struct {
	Index     int           `json:"index"`
	Vendor    VendorRecord  `json:"vendorRecord"`
	OldStatus PaymentStatus `json:"oldStatus"`
	NewStatus PaymentStatus `json:"newStatus"`
}

// Qualifies reports whether the transition warrants a payment confirmation.
// Only Not Paid -> Paid does.
func (t Transition) Qualifies() bool {
	return t.OldStatus == StatusNotPaid && t.NewStatus == StatusPaid
}
