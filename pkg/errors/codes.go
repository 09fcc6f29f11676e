package errors

// ErrorCodeInfo contains metadata about an error code.
type ErrorCodeInfo struct {
	Code            ErrorCode
	Retryable       bool
	Description     string
	SuggestedAction string
}

// ErrorCodeRegistry maps error codes to their metadata. Header parsing is
// deterministic, so no code is retryable with the same input.
var ErrorCodeRegistry = map[ErrorCode]ErrorCodeInfo{
	CodeLoadError: {
		Code:            CodeLoadError,
		Retryable:       false,
		Description:     "Document could not be converted to text",
		SuggestedAction: "Check the file format and that the converter is installed: kprot inspect --debug <file>",
	},
	CodeAnchorNotFound: {
		Code:            CodeAnchorNotFound,
		Retryable:       false,
		Description:     "Header label phrase not present in the document text",
		SuggestedAction: "Inspect the extracted header: kprot inspect --show-text <file>",
	},
	CodeNumeralParse: {
		Code:            CodeNumeralParse,
		Retryable:       false,
		Description:     "Numeral or month word did not match the expected grammar",
		SuggestedAction: "Decode the token directly: kprot numeral --words <token>",
	},
	CodeGematriaParse: {
		Code:            CodeGematriaParse,
		Retryable:       false,
		Description:     "Letter numeral has an unknown letter or a missing geresh/gershayim",
		SuggestedAction: "Decode the token directly: kprot numeral --letters <token>",
	},
	CodeClosed: {
		Code:            CodeClosed,
		Retryable:       false,
		Description:     "Field read after the document was closed",
		SuggestedAction: "Read fields inside the protocol.With callback or before Close",
	},
}

// IsRetryable returns true if the given error code represents a transient, retryable error.
func IsRetryable(code ErrorCode) bool {
	if info, ok := ErrorCodeRegistry[code]; ok {
		return info.Retryable
	}
	return false
}

// GetSuggestedAction returns the suggested action for the given error code.
func GetSuggestedAction(code ErrorCode) string {
	if info, ok := ErrorCodeRegistry[code]; ok {
		return info.SuggestedAction
	}
	return "Check the debug logs: rerun with --debug"
}

// GetDescription returns the human-readable description for the given error code.
func GetDescription(code ErrorCode) string {
	if info, ok := ErrorCodeRegistry[code]; ok {
		return info.Description
	}
	return "Unknown error"
}
