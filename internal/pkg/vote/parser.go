package vote

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedPayload marks a JSON delivery whose envelope is structurally
// unusable. Callers answer 400 so Gtop100 does not retry garbage.
var ErrMalformedPayload = errors.New("vote: malformed pingback payload")

// jsonEnvelope is the Gtop100 JSON pingback shape. Common holds zero or more
// vote entries, each entry a list of single-key objects that have to be merged
// into one flat record before the fields can be read.
type jsonEnvelope struct {
	PingbackKey string                `json:"pingbackkey"`
	SiteID      string                `json:"siteid"`
	Common      *[][]map[string]string `json:"Common"`
}

// Delivery is one parsed pingback: the shared authenticity key plus the
// normalized vote records it carried.
type Delivery struct {
	PingbackKey string
	SiteID      string
	Records     []Record
}

// ParseJSONPingback normalizes the JSON encoding of a pingback delivery.
func ParseJSONPingback(body []byte) (*Delivery, error) {
	var envelope jsonEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrMalformedPayload
	}
	if envelope.Common == nil {
		return nil, ErrMalformedPayload
	}

	d := &Delivery{
		PingbackKey: envelope.PingbackKey,
		SiteID:      envelope.SiteID,
	}
	for _, entry := range *envelope.Common {
		merged := make(map[string]string)
		for _, subEntry := range entry {
			for k, v := range subEntry {
				merged[k] = v
			}
		}
		d.Records = append(d.Records, Record{
			Success:  parseSuccessFlag(merged["success"]),
			Reason:   merged["reason"],
			Username: merged["pb_name"],
			VoterIP:  merged["ip"],
			Site:     SiteGtop100,
		})
	}
	return d, nil
}

// ParseFormPingback normalizes the form encoding of a pingback delivery,
// which always carries exactly one vote record.
func ParseFormPingback(formValue func(string) string) *Delivery {
	return &Delivery{
		PingbackKey: formValue("pingbackkey"),
		Records: []Record{{
			Success:  parseSuccessFlag(formValue("Successful")),
			Reason:   formValue("Reason"),
			Username: formValue("pingUsername"),
			VoterIP:  formValue("VoterIP"),
			Site:     SiteGtop100,
		}},
	}
}

// parseSuccessFlag reads Gtop100's success flag: 0 means the vote counted.
// The absolute value guards against sign variations; anything unparseable is
// treated as a failed vote.
func parseSuccessFlag(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 0 {
		n = -n
	}
	return n
}
