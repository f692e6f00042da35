package gateway

// Wire shapes for the payment service's JSON API.

type amountDTO struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

type modificationDTO struct {
	MerchantAccount    string     `json:"merchantAccount"`
	OriginalReference  string     `json:"originalReference"`
	ModificationAmount *amountDTO `json:"modificationAmount,omitempty"`
}

type modificationResultDTO struct {
	Response     string `json:"response"`
	PspReference string `json:"pspReference"`
}

// modificationEnvelopeDTO nests the result under an operation-named
// object; exactly one of the fields is set on a well-formed reply.
type modificationEnvelopeDTO struct {
	CaptureResult        *modificationResultDTO `json:"captureResult"`
	RefundResult         *modificationResultDTO `json:"refundResult"`
	CancelResult         *modificationResultDTO `json:"cancelResult"`
	CancelOrRefundResult *modificationResultDTO `json:"cancelOrRefundResult"`
}

type authoriseDTO struct {
	Amount           amountDTO         `json:"amount"`
	Reference        string            `json:"reference"`
	MerchantAccount  string            `json:"merchantAccount"`
	ShopperReference string            `json:"shopperReference,omitempty"`
	RecurringType    string            `json:"recurring,omitempty"`
	PaymentMethod    string            `json:"paymentMethod,omitempty"`
}

type redirectDataDTO struct {
	PaReq string `json:"PaReq"`
	MD    string `json:"MD"`
}

type redirectDTO struct {
	Data redirectDataDTO `json:"data"`
	URL  string          `json:"url"`
}

type authenticationDTO struct {
	FingerprintToken string `json:"threeds2.fingerprintToken"`
	ChallengeToken   string `json:"threeds2.challengeToken"`
}

type fraudResultDTO struct {
	AccountScore *int `json:"accountScore"`
}

type authoriseResultDTO struct {
	ResultCode     string             `json:"resultCode"`
	PspReference   string             `json:"pspReference"`
	PaymentData    string             `json:"paymentData"`
	Redirect       *redirectDTO       `json:"redirect"`
	Authentication *authenticationDTO `json:"authentication"`
	FraudResult    *fraudResultDTO    `json:"fraudResult"`
	AdditionalData map[string]string  `json:"additionalData"`
	OutputDetails  map[string]string  `json:"outputDetails"`
}

type disableDTO struct {
	MerchantAccount          string `json:"merchantAccount"`
	ShopperReference         string `json:"shopperReference"`
	RecurringDetailReference string `json:"recurringDetailReference"`
}

type disableResultDTO struct {
	Response string `json:"response"`
}
