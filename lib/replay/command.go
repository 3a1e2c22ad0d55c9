package replay

import (
	"errors"
	"regexp"
	"strconv"
)

const (
	MinItem = 1
	MaxItem = 999
)

type Op byte

const (
	OpInsert Op = 'I'
	OpDelete Op = 'D'
	OpSelect Op = 'S'
	OpRank   Op = 'R'
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpSelect:
		return "select"
	case OpRank:
		return "rank"
	default:
	}
	return "unknown"
}

type Command struct {
	Op  Op
	Arg int
	raw string
}

func (cmd Command) String() string {
	if cmd.raw != "" {
		return cmd.raw
	}
	return string(rune(cmd.Op)) + " " + strconv.Itoa(cmd.Arg)
}

var commandPattern = regexp.MustCompile(`^[IDSR] (\d+)$`)

// ParseCommand accepts a single line like "I 42". The integer must be in
// [MinItem, MaxItem].
func ParseCommand(line string) (Command, error) {
	m := commandPattern.FindStringSubmatch(line)
	if m == nil {
		return Command{}, ErrCommandFormat
	}
	x, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return Command{}, ErrIntegerRange
		}
		return Command{}, ErrCommandFormat
	}
	if x < MinItem || x > MaxItem {
		return Command{}, ErrIntegerRange
	}
	return Command{
		Op:  Op(line[0]),
		Arg: int(x),
		raw: line,
	}, nil
}
