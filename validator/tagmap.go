package validator

var tagMap = map[string]string{
	"required":         "required",
	"url":              "invalid_url",
	"http_url":         "invalid_http_url",
	"hostname_port":    "invalid_address",
	"max":              "too_long",
	"min":              "too_short",
	"gt":               "too_small",
	"lt":               "too_large",
	"gte":              "too_small_or_equal",
	"lte":              "too_large_or_equal",
	"len":              "invalid_length",
	"oneof":            "invalid_choice",
	"alphanum":         "only_letters_and_digits_allowed",
	"printascii":       "only_printable_ascii_allowed",
	"vat_jurisdiction": "unknown_jurisdiction",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
