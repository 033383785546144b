package http

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"fishwrapper-service/internal/domain"
)

const maxFormSize = 1 << 20

// parseOrderedForm decodes an application/x-www-form-urlencoded body into
// an ordered field list. url.Values would lose the submission order, and
// question/answer/result ordering on the quiz forms follows it.
func parseOrderedForm(r *http.Request) (domain.FormFields, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormSize))
	if err != nil {
		return nil, err
	}
	return parseQueryOrdered(string(body)), nil
}

func parseQueryOrdered(raw string) domain.FormFields {
	var fields domain.FormFields
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		fields = append(fields, domain.FormField{Key: key, Value: value})
	}
	return fields
}
