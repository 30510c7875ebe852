// Package birds implements the command driven controller of the dancing birds
// exhibit: rotation, platform jump, music, dance cycles and the dispatcher that
// ties them to a single shared status.
package birds

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one entry of the exhibit's fixed command vocabulary. Values only
// enter the program through Decode or the named constants.
type Command uint8

// Wire values of the command vocabulary.
const (
	CmdJump        Command = 0x01 // platform jumps once
	CmdRotateRight Command = 0x02 // rotate current bird clockwise
	CmdNextBird    Command = 0x03 // select next bird, cyclic
	CmdRotateLeft  Command = 0x04 // rotate current bird counter clockwise
	CmdMusic       Command = 0x05 // music power on/off
	CmdSound       Command = 0x06 // press the track change button
	CmdDance       Command = 0x07 // dance mode on/off
	CmdStop        Command = 0x08 // return to rest and end the run
)

var commandNames = [...]string{
	CmdJump:        "jump",
	CmdRotateRight: "rotate_right",
	CmdNextBird:    "next_bird",
	CmdRotateLeft:  "rotate_left",
	CmdMusic:       "music",
	CmdSound:       "sound",
	CmdDance:       "dance",
	CmdStop:        "stop",
}

// Commands lists the vocabulary in wire order.
func Commands() []Command {
	return []Command{CmdJump, CmdRotateRight, CmdNextBird, CmdRotateLeft, CmdMusic, CmdSound, CmdDance, CmdStop}
}

// Valid reports whether c is part of the vocabulary.
func (c Command) Valid() bool {
	return c >= CmdJump && c <= CmdStop
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("unknown(0x%02X)", uint8(c))
	}
	return commandNames[c]
}

// Decode converts a wire byte into a Command.
func Decode(b byte) (Command, error) {
	c := Command(b)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, b)
	}
	return c, nil
}

// ParseCommand accepts the textual forms used by operators and message brokers:
// a command name ("jump", "next_bird"), a decimal or 0x prefixed hex code, or a
// single raw byte. Every numeric form goes through Decode.
func ParseCommand(s string) (Command, error) {
	if len(s) == 1 && (s[0] < '0' || s[0] > '9') {
		if c, err := Decode(s[0]); err == nil {
			return c, nil
		}
	}

	text := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Commands() {
		if text == c.String() {
			return c, nil
		}
	}

	n, err := strconv.ParseUint(text, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
	}
	return Decode(byte(n))
}
