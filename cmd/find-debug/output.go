package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vietanhduong/debugfind/pkg/locate"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type entry struct {
	Pid       int         `json:"pid,omitempty"`
	Binary    string      `json:"binary"`
	DebugFile string      `json:"debug_file,omitempty"`
	Strategy  locate.Kind `json:"strategy,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func (e entry) String() string {
	prefix := e.Binary
	if e.Pid != 0 {
		prefix = fmt.Sprintf("[%d] %s", e.Pid, e.Binary)
	}
	switch {
	case e.Error != "":
		return fmt.Sprintf("%s: error: %s", prefix, e.Error)
	case e.DebugFile == "":
		return fmt.Sprintf("%s: not found", prefix)
	}
	return fmt.Sprintf("%s: %s (%s)", prefix, e.DebugFile, e.Strategy)
}

func printEntries(w io.Writer, format string, entries []entry) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}
