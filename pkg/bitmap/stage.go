package bitmap

type EncodeStage int

const (
	EncodeInit EncodeStage = iota
	HeaderCopied
	SignatureWritten
	ExtLenWritten
	ExtensionWritten
	PayloadLenWritten
	PayloadWritten
	TrailingCopied
	EncodeDone
	EncodeFailed
)

var encodeStageNames = [...]string{
	"init", "header_copied", "signature_written", "ext_len_written", "extension_written",
	"payload_len_written", "payload_written", "trailing_copied", "done", "failed",
}

func (s EncodeStage) String() string {
	if s < 0 || int(s) >= len(encodeStageNames) {
		return "unknown"
	}
	return encodeStageNames[s]
}

type DecodeStage int

const (
	DecodeInit DecodeStage = iota
	HeaderSkipped
	SignatureVerified
	ExtLenRead
	ExtensionRead
	PayloadLenRead
	PayloadRead
	DecodeDone
	DecodeFailed
)

var decodeStageNames = [...]string{
	"init", "header_skipped", "signature_verified", "ext_len_read", "extension_read",
	"payload_len_read", "payload_read", "done", "failed",
}

func (s DecodeStage) String() string {
	if s < 0 || int(s) >= len(decodeStageNames) {
		return "unknown"
	}
	return decodeStageNames[s]
}
