// Package logx configures logrus to print "[component] message" status lines.
package logx

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// ComponentField is the entry field holding the component name.
const ComponentField = "component"

// Formatter renders "[component] message key=value ..." lines.
// Entries at warn level or above get the level name after the component.
type Formatter struct {
	// DisableFields drops key=value fields from the output.
	DisableFields bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	if component, ok := entry.Data[ComponentField]; ok {
		fmt.Fprintf(&b, "[%v] ", component)
	}

	if entry.Level <= logrus.WarnLevel {
		fmt.Fprintf(&b, "%s: ", entry.Level)
	}

	b.WriteString(entry.Message)

	if !f.DisableFields {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			if k != ComponentField {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

// New creates a logger writing formatted lines to w.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&Formatter{})

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New(io.Discard, logrus.PanicLevel)
}

// For returns an entry tagged with component.
func For(logger logrus.FieldLogger, component string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}

	return logger.WithField(ComponentField, component)
}
