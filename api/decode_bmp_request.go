package api

type DecodeBMPRequest struct {
	StegoImage []byte `json:"stego_image" binding:"required"`
	Signature  string `json:"signature"`
}

type DecodeBMPResponse struct {
	Extension string `json:"extension"`
	Payload   []byte `json:"payload"`
}
