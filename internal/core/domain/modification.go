package domain

// Operation is the kind of post-authorisation modification sent to the
// gateway.
type Operation string

const (
	OpCapture        Operation = "capture"
	OpRefund         Operation = "refund"
	OpCancel         Operation = "cancel"
	OpCancelOrRefund Operation = "cancel_or_refund"
)

// Gateway result codes shared by all modification operations.
const (
	ResultAuthorised = "Authorised"
	ResultCancelled  = "Cancelled"
	ResultRefused    = "Refused"
	ResultError      = "Error"

	ResultCaptureReceived        = "[capture-received]"
	ResultRefundReceived         = "[refund-received]"
	ResultCancelReceived         = "[cancel-received]"
	ResultCancelOrRefundReceived = "[cancelOrRefund-received]"
)

// Result codes only reachable from the initial authorisation call.
const (
	ResultRedirectShopper  = "RedirectShopper"
	ResultIdentifyShopper  = "IdentifyShopper"
	ResultChallengeShopper = "ChallengeShopper"
	ResultReceived         = "Received"
	ResultPresentToShopper = "PresentToShopper"
)

// ModificationRequest is the transient, per-call request shape sent to
// the gateway. Amount is zero for cancel and cancel-or-refund.
type ModificationRequest struct {
	Operation       Operation
	Amount          int64
	Currency        string
	PspReference    string
	MerchantAccount string
}

// ModificationResponse is the classified, operation-tagged shape
// extracted from the gateway's raw modification reply.
type ModificationResponse struct {
	Operation    Operation
	ResultCode   string
	PspReference string
}

// Redirect carries the 3-D-Secure v1 challenge fields of an
// authorisation response.
type Redirect struct {
	PaReq string
	MD    string
	URL   string
}

// AuthorisationResponse is the richer, JSON-shaped reply to the initial
// authorisation call.
type AuthorisationResponse struct {
	ResultCode  string
	PspReference string
	PaymentData string

	Redirect *Redirect

	// 3-D-Secure v2 device fingerprint / challenge tokens.
	FingerprintToken string
	ChallengeToken   string

	FraudScore *int

	// AdditionalData is the flat key/value block; keys with the voucher
	// vendor prefix denote voucher metadata.
	AdditionalData map[string]string
	OutputDetails  map[string]string
}

// OutcomeKind is what a classified modification response means for the
// caller. Rejected and error outcomes surface as domain errors instead.
type OutcomeKind string

const (
	// OutcomeSkipped: no psp reference was available, nothing was sent.
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeFinalized: the gateway authorised the modification.
	OutcomeFinalized OutcomeKind = "finalized"
	// OutcomeAcceptedPending: the gateway accepted the modification for
	// asynchronous processing.
	OutcomeAcceptedPending OutcomeKind = "accepted_pending"
)

// Outcome is the successful result of one dispatched modification.
type Outcome struct {
	Kind         OutcomeKind
	ResultCode   string
	PspReference string
}
