package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestDepfPrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logrus.InfoLevel)
	l.Depf("checking %s", "react")
	if !strings.Contains(buf.String(), "wsdepctl: checking react") {
		t.Errorf("expected prefixed message, got %q", buf.String())
	}
}

func TestWithFieldsCarriesStructuredContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logrus.InfoLevel)
	l.WithFields(map[string]interface{}{"package": "my-app"}).Info("resolved")
	out := buf.String()
	if !strings.Contains(out, "package=my-app") {
		t.Errorf("expected structured field in output, got %q", out)
	}
}
