package transformer

import (
	"encoding/json"

	"certmatch/pkg/model"

	"github.com/pkg/errors"
)

const certificateUpdate = "certificate_update"

// Transformer turns a raw feed message into a record, nil when the message
// carries nothing to analyse
type Transformer interface {
	Apply(msg []byte) (*model.Record, error)
}

// Certstream transforms CertStream messages
type Certstream struct{}

// Apply implements Transformer. Heartbeats, other message types and
// certificates without any domain give a nil record.
func (Certstream) Apply(msg []byte) (*model.Record, error) {
	var c model.Certificate
	if err := json.Unmarshal(msg, &c); err != nil {
		return nil, errors.Wrap(err, "can't decode message")
	}
	if c.MessageType != certificateUpdate {
		return nil, nil
	}
	leaf := c.Data.LeafCert
	if len(leaf.AllDomains) == 0 {
		return nil, nil
	}

	chain := make([]string, 0, len(c.Data.Chain))
	for _, cert := range c.Data.Chain {
		chain = append(chain, organization(cert.Subject))
	}

	return &model.Record{
		CertIndex:   c.Data.CertIndex,
		Seen:        c.Data.Seen,
		Fingerprint: leaf.FingerPrint,
		Chain:       chain,
		NotBefore:   leaf.NotBefore,
		NotAfter:    leaf.NotAfter,
		AllDomains:  append([]string{}, leaf.AllDomains...),
	}, nil
}

func organization(subject map[string]interface{}) string {
	if o, ok := subject["O"].(string); ok {
		return o
	}
	return ""
}
