package vies

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/vortex-fintech/go-vat/jurisdiction"
	"github.com/vortex-fintech/go-vat/timeutil"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	typesNS    = "urn:ec.europa.eu:taxud:vies:services:checkVat:types"
)

type requestEnvelope struct {
	XMLName xml.Name    `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    requestBody `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

type requestBody struct {
	CheckVat checkVat `xml:"urn:ec.europa.eu:taxud:vies:services:checkVat:types checkVat"`
}

type checkVat struct {
	CountryCode string `xml:"urn:ec.europa.eu:taxud:vies:services:checkVat:types countryCode"`
	VATNumber   string `xml:"urn:ec.europa.eu:taxud:vies:services:checkVat:types vatNumber"`
}

// Response elements are matched by local name only.
type responseEnvelope struct {
	Body struct {
		Response *checkVatResponse `xml:"checkVatResponse"`
		Fault    *soapFault        `xml:"Fault"`
	} `xml:"Body"`
}

type checkVatResponse struct {
	CountryCode string `xml:"countryCode"`
	VATNumber   string `xml:"vatNumber"`
	RequestDate string `xml:"requestDate"`
	Valid       string `xml:"valid"`
	Name        string `xml:"name"`
	Address     string `xml:"address"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

func encodeRequest(r Request) ([]byte, error) {
	env := requestEnvelope{Body: requestBody{CheckVat: checkVat{
		CountryCode: r.CountryCode,
		VATNumber:   r.VATNumber,
	}}}
	out, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Result is what VIES knows about a VAT number on the request date.
type Result struct {
	CountryCode jurisdiction.Code `json:"country_code"`
	VATNumber   string            `json:"vat_number"`
	RequestDate *time.Time        `json:"request_date,omitempty"`
	Valid       bool              `json:"valid"`
	Name        string            `json:"name,omitempty"`
	Address     string            `json:"address,omitempty"`

	// Cached is set when the result was served from a Cache.
	Cached bool `json:"cached"`
}

func (r *checkVatResponse) result(req Request) Result {
	out := Result{
		CountryCode: jurisdiction.Code(req.CountryCode),
		VATNumber:   req.VATNumber,
		Valid:       strings.TrimSpace(r.Valid) == "true",
		Name:        optional(r.Name),
		Address:     optional(r.Address),
	}
	if d := strings.TrimSpace(r.RequestDate); d != "" {
		if t, err := timeutil.ParseDate(d); err == nil {
			out.RequestDate = &t
		}
	}
	return out
}

// optional drops the "---" VIES sends when a member state withholds a field.
func optional(s string) string {
	s = strings.TrimSpace(s)
	if s == "---" {
		return ""
	}
	return s
}
