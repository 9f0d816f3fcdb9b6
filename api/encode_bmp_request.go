package api

type EncodeBMPRequest struct {
	Carrier   []byte `json:"carrier" binding:"required"`
	Payload   []byte `json:"payload"`
	Extension string `json:"extension"`
	Signature string `json:"signature"`
}

type EncodeBMPResponse struct {
	StegoImage []byte `json:"stego_image"`
}
