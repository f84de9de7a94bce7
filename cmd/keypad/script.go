package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/messages"
)

type command struct {
	key    string
	action messages.KeyAction
	sleep  time.Duration
	ping   bool
}

// parseLine reads one script line:
//
//	A          tap a key
//	#down      press and keep holding
//	#up        release
//	sleep 3s   wait
//	ping       measure the round trip
//
// Blank lines and lines starting with // are skipped (ok is false).
func parseLine(line string) (cmd command, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "//") {
		return command{}, false, nil
	}

	if line == "ping" {
		return command{ping: true}, true, nil
	}
	if rest, found := strings.CutPrefix(line, "sleep "); found {
		d, err := time.ParseDuration(strings.TrimSpace(rest))
		if err != nil {
			return command{}, false, fmt.Errorf("invalid sleep %q: %v", rest, err)
		}
		return command{sleep: d}, true, nil
	}

	key, action := line, messages.KeyActionTap
	switch {
	case len(line) > len("down") && strings.HasSuffix(line, "down"):
		key, action = strings.TrimSuffix(line, "down"), messages.KeyActionDown
	case len(line) > len("up") && strings.HasSuffix(line, "up"):
		key, action = strings.TrimSuffix(line, "up"), messages.KeyActionUp
	}
	key = strings.TrimSpace(key)
	if input.NormalizeKey(key) == "" {
		return command{}, false, fmt.Errorf("unknown key %q", key)
	}
	return command{key: key, action: action}, true, nil
}
