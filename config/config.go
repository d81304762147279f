// Package config loads the settings of certmatch from a file and the
// environment.
package config

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"certmatch/helper"
	"certmatch/pkg/analyser"
	"certmatch/pkg/certstream"
	"certmatch/pkg/index"
	"certmatch/pkg/pipeline"
	"certmatch/pkg/reporter"
	"certmatch/pkg/storage"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Configuration represents a configuration element
type Configuration struct {
	Workers           int
	CertstreamURL     string
	Domains           []string
	DomainsFile       string
	Analysers         []string
	Storages          []string
	Reporters         []string
	BulkThreshold     int
	MinMatchingLength int
	IncludeTLD        bool
	MatchingOption    string
	Permutations      bool
	StoragePath       string
	PostgresURL       string
	ReportPath        string
	CoNLLPath         string
	SlackWebhookURL   string
	SlackIconURL      string
	SlackUsername     string
	TakeScreenshot    bool
	IgnoreOlderThan   int
	ListenAddress     string
	DedupCacheSize    int
	LogLevel          string
}

// DefaultAnalysers is the detection chain run when none is configured
var DefaultAnalysers = []string{"idna", "homoglyph", "ahocorasick", "wordsegmentation", "bulk", "domainmatching"}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("Workers", pipeline.DefaultWorkers)
	v.SetDefault("CertstreamURL", certstream.DefaultURL)
	v.SetDefault("Domains", []string{})
	v.SetDefault("DomainsFile", "")
	v.SetDefault("Analysers", DefaultAnalysers)
	v.SetDefault("Storages", []string{})
	v.SetDefault("Reporters", []string{"file"})
	v.SetDefault("BulkThreshold", analyser.BulkDomainThreshold)
	v.SetDefault("MinMatchingLength", index.MinMatchingLength)
	v.SetDefault("IncludeTLD", true)
	v.SetDefault("MatchingOption", "order")
	v.SetDefault("Permutations", false)
	v.SetDefault("StoragePath", storage.DefaultPath)
	v.SetDefault("PostgresURL", "")
	v.SetDefault("ReportPath", reporter.DefaultPath)
	v.SetDefault("CoNLLPath", reporter.DefaultCoNLLPath)
	v.SetDefault("SlackWebhookURL", "")
	v.SetDefault("SlackIconURL", "")
	v.SetDefault("SlackUsername", reporter.DefaultSlackUsername)
	v.SetDefault("TakeScreenshot", false)
	v.SetDefault("IgnoreOlderThan", 0)
	v.SetDefault("ListenAddress", "localhost:6060")
	v.SetDefault("DedupCacheSize", 1000)
	v.SetDefault("LogLevel", "info")
	return v
}

// GetConfig provides a Configuration, read from configFile when set, then
// from the environment. The domain list is loaded from DomainsFile.
func GetConfig(configFile string) (*Configuration, error) {
	c := &Configuration{}

	v := newViper()
	if configFile != "" {
		d, f := path.Split(configFile)
		if d == "" {
			d = "."
		}
		v.SetConfigName(f[0 : len(f)-len(filepath.Ext(f))])
		v.AddConfigPath(d)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "error when reading config file")
		}
	}
	v.AutomaticEnv()
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "can't decode configuration")
	}

	if c.DomainsFile != "" {
		domains, err := ReadDomains(c.DomainsFile)
		if err != nil {
			return nil, err
		}
		c.Domains = append(c.Domains, domains...)
	}
	c.Domains = helper.RemoveDuplicate(c.Domains)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the selectors and bounds of the configuration
func (c *Configuration) Validate() error {
	if c.Workers < 1 {
		return errors.New("workers must be strictly a positive number")
	}
	if c.MinMatchingLength < 1 {
		return errors.New("min matching length must be strictly a positive number")
	}
	if _, err := analyser.ParseMatchingMode(c.MatchingOption); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "bad log level")
	}
	if err := checkSelectors("analyser", c.Analysers, analyser.Supported()); err != nil {
		return err
	}
	if err := checkSelectors("storage", c.Storages, storage.Supported()); err != nil {
		return err
	}
	if err := checkSelectors("reporter", c.Reporters, reporter.Supported()); err != nil {
		return err
	}
	if helper.Contains(lower(c.Analysers), "ahocorasick") && len(c.Domains) == 0 {
		return errors.New("domain list can't be empty")
	}
	return nil
}

func checkSelectors(kind string, selected, supported []string) error {
	for _, s := range selected {
		if !helper.Contains(supported, strings.ToLower(s)) {
			return errors.Errorf("%s %q is not supported, valid %ss are: %s", kind, s, kind, strings.Join(supported, ", "))
		}
	}
	return nil
}

func lower(s []string) []string {
	l := make([]string, 0, len(s))
	for _, i := range s {
		l = append(l, strings.ToLower(i))
	}
	return l
}

// ReadDomains reads one reference domain per line. Blank lines and lines
// starting with # are ignored.
func ReadDomains(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open domains file %s", file)
	}
	defer f.Close()

	domains := []string{}
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.ToLower(strings.TrimSpace(s.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "can't read domains file %s", file)
	}
	return domains, nil
}

// SetLogLevel applies LogLevel to the logger
func (c *Configuration) SetLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// AnalyserSettings returns the settings of the analysis stages
func (c *Configuration) AnalyserSettings() analyser.Settings {
	return analyser.Settings{
		Domains:           c.Domains,
		MinMatchingLength: c.MinMatchingLength,
		Permutations:      c.Permutations,
		BulkThreshold:     c.BulkThreshold,
		IncludeTLD:        c.IncludeTLD,
		MatchingOption:    c.MatchingOption,
	}
}

// StorageSettings returns the settings of the storages
func (c *Configuration) StorageSettings() storage.Settings {
	return storage.Settings{Path: c.StoragePath, PostgresURL: c.PostgresURL}
}

// ReporterSettings returns the settings of the reporters
func (c *Configuration) ReporterSettings() reporter.Settings {
	return reporter.Settings{
		Path:      c.ReportPath,
		CoNLLPath: c.CoNLLPath,
		Slack: reporter.SlackConfig{
			WebhookURL:      c.SlackWebhookURL,
			IconURL:         c.SlackIconURL,
			Username:        c.SlackUsername,
			TakeScreenshot:  c.TakeScreenshot,
			IgnoreOlderThan: c.IgnoreOlderThan,
		},
	}
}
