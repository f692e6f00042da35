package gateway

import (
	"fmt"
	"regexp"
)

// Keys whose values must never reach a log line: credentials and
// PAN-adjacent card data.
var sensitiveKeys = []string{
	"password",
	"number",
	"cvc",
	"cardNumber",
	"expiryMonth",
	"expiryYear",
	"holderName",
}

var sensitivePattern = func() *regexp.Regexp {
	keys := ""
	for i, k := range sensitiveKeys {
		if i > 0 {
			keys += "|"
		}
		keys += regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(fmt.Sprintf(`"(%s)"\s*:\s*"[^"]*"`, keys))
}()

// obscure masks the values of sensitive JSON fields before logging.
func obscure(body []byte) string {
	return sensitivePattern.ReplaceAllString(string(body), `"$1":"***"`)
}
