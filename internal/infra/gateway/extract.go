package gateway

import (
	"regexp"
	"strings"

	"github.com/resonancehq/archetype-api/client"
)

// locationStrategy tries to produce the result-data URL for a finished
// run. Strategies are tried in order; each either yields a location or
// defers to the next, and the chain running dry is a normal outcome.
type locationStrategy interface {
	Try(logText string, run client.Run) (string, bool)
}

// logPatternStrategy scans the container log for the dataset items URL
// the automation prints on success.
type logPatternStrategy struct {
	re *regexp.Regexp
}

var datasetURLPattern = regexp.MustCompile(`https?://[^\s"']+/datasets/[A-Za-z0-9_-]+/items[^\s"']*`)

func (s logPatternStrategy) Try(logText string, run client.Run) (string, bool) {
	m := s.re.FindString(logText)
	return m, m != ""
}

// reconstructStrategy rebuilds the dataset path from run metadata and the
// template's storage hint, for runs whose log never printed the URL.
type reconstructStrategy struct {
	storageBase string
}

func (s reconstructStrategy) Try(logText string, run client.Run) (string, bool) {
	if s.storageBase == "" || run.DatasetID == "" {
		return "", false
	}
	return strings.TrimRight(s.storageBase, "/") + "/datasets/" + run.DatasetID + "/items?format=json", true
}
