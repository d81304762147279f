package model

// Certificate represents a message from CertStream
type Certificate struct {
	MessageType string `json:"message_type"`
	Data        Data   `json:"data"`
}

// Data represents data field for a certificate from CertStream
type Data struct {
	UpdateType string            `json:"update_type"`
	LeafCert   LeafCert          `json:"leaf_cert"`
	Chain      []LeafCert        `json:"chain"`
	CertIndex  int64             `json:"cert_index"`
	Seen       float64           `json:"seen"`
	Source     map[string]string `json:"source"`
}

// LeafCert represents leaf_cert field from CertStream
type LeafCert struct {
	Subject      map[string]interface{} `json:"subject"`
	Issuer       map[string]interface{} `json:"issuer"`
	Extensions   map[string]interface{} `json:"extensions"`
	NotBefore    float64                `json:"not_before"`
	NotAfter     float64                `json:"not_after"`
	SerialNumber string                 `json:"serial_number"`
	FingerPrint  string                 `json:"fingerprint"`
	AsDer        string                 `json:"as_der"`
	AllDomains   []string               `json:"all_domains"`
}

// Record is a certificate flowing through the analysis pipeline. Every
// stage appends its output to Analysers, in execution order.
type Record struct {
	CertIndex   int64    `json:"cert_index"`
	Seen        float64  `json:"seen"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Chain       []string `json:"chain"`
	NotBefore   float64  `json:"not_before"`
	NotAfter    float64  `json:"not_after"`
	AllDomains  []string `json:"all_domains"`
	Analysers   []Result `json:"analysers,omitempty"`
}

// Result is one entry of the analysis ledger
type Result struct {
	Analyser string `json:"analyser"`
	Output   Output `json:"output"`
}

// Output is the payload of a ledger entry. The set of implementations is
// closed: one type per stage.
type Output interface {
	isOutput()
}

// Matches maps an observed domain to the reference domains found inside it
type Matches map[string][]string

// Segments maps a domain to its ordered word tokens
type Segments map[string][]string

// Bulk tells whether the certificate carries a bulk SAN list
type Bulk bool

// Verdicts maps a suspicious domain to the reference domains it impersonates
type Verdicts map[string][]string

// Features holds one feature vector per segmented domain
type Features map[string][]float64

// Count is a running counter, used by the debugger
type Count int64

// Registration holds WHOIS details of a domain
type Registration struct {
	Registrar    string `json:"registrar,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	AgeDays      int    `json:"age_days"`
}

// Registrations maps a domain to its WHOIS details
type Registrations map[string]Registration

func (Matches) isOutput()       {}
func (Segments) isOutput()      {}
func (Bulk) isOutput()          {}
func (Verdicts) isOutput()      {}
func (Features) isOutput()      {}
func (Count) isOutput()         {}
func (Registrations) isOutput() {}

// Append adds the output of a stage at the end of the ledger
func (r *Record) Append(analyser string, output Output) {
	r.Analysers = append(r.Analysers, Result{Analyser: analyser, Output: output})
}

// Lookup returns the most recent output of a stage
func (r *Record) Lookup(analyser string) (Output, bool) {
	for i := len(r.Analysers) - 1; i >= 0; i-- {
		if r.Analysers[i].Analyser == analyser {
			return r.Analysers[i].Output, true
		}
	}
	return nil, false
}

// Domain returns the primary domain of the certificate
func (r *Record) Domain() string {
	if len(r.AllDomains) == 0 {
		return ""
	}
	return r.AllDomains[0]
}

// Issuer returns the organization of the first certificate of the chain
func (r *Record) Issuer() string {
	if len(r.Chain) == 0 {
		return ""
	}
	return r.Chain[0]
}
