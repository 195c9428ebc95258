// internal/command/parser.go
package command

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Parse decodes "id=<id>;<key>=<value>" into a Request.
// totalDoors bounds door indices.
//
// Returns ErrMalformed when the envelope lacks '=' or ';' or an id,
// and *Error for a readable envelope carrying an unusable command.
func Parse(msg string, totalDoors int) (Request, error) {
	msg = strings.TrimRight(msg, "\x00\r\n ")

	head, rest, ok := strings.Cut(msg, ";")
	if !ok {
		return Request{}, ErrMalformed
	}
	idKey, id, ok := strings.Cut(head, "=")
	if !ok || lower(strings.TrimSpace(idKey)) != KeyID {
		return Request{}, ErrMalformed
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Request{}, ErrMalformed
	}

	key, value, ok := strings.Cut(rest, "=")
	if !ok {
		return Request{}, ErrMalformed
	}

	switch lower(strings.TrimSpace(key)) {
	case KeyDoorIdx:
		doors, dropped := parseDoorList(value, totalDoors)
		return Request{ID: id, Kind: OpenDoors, Doors: doors, Dropped: dropped}, nil

	case KeyCtrlCmd:
		return parseParam(id, value)

	default:
		return Request{}, &Error{ID: id, Reason: "unknown device control command " + strconv.Quote(key)}
	}
}

// parseDoorList reads "n1,n2,...". A token is accepted only when it is
// numeric, within 1..total and strictly greater than the token before it;
// anything else is dropped and parsing goes on. Every token moves the
// floor, a non-numeric one resets it to 0.
func parseDoorList(value string, total int) (doors []int, dropped []string) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	prev := 0
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)

		n, err := strconv.Atoi(tok)
		if err != nil {
			n = 0
		}
		floor := prev
		prev = n

		switch {
		case err != nil:
			log.WithField("token", tok).Warn("door list: not a number, ignored")
		case n < 1 || n > total:
			log.WithField("door", n).Warnf("door list: outside 1..%d, ignored", total)
		case n <= floor:
			log.WithFields(log.Fields{"door": n, "previous": floor}).Warn("door list: not ascending, ignored")
		default:
			doors = append(doors, n)
			continue
		}
		dropped = append(dropped, tok)
	}
	return doors, dropped
}

// parseParam reads "<name>;ctrl_para=<n>".
func parseParam(id, value string) (Request, error) {
	name, tail, ok := strings.Cut(value, ";")
	if !ok {
		return Request{}, &Error{ID: id, Reason: "missing " + KeyCtrlPara}
	}

	p, ok := LookupParam(strings.TrimSpace(name))
	if !ok {
		return Request{}, &Error{ID: id, Reason: "unknown device control command " + strconv.Quote(name)}
	}

	paraKey, raw, ok := strings.Cut(tail, "=")
	if !ok || lower(strings.TrimSpace(paraKey)) != KeyCtrlPara {
		return Request{}, &Error{ID: id, Reason: "missing " + KeyCtrlPara}
	}

	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
	if err != nil {
		return Request{}, &Error{ID: id, Reason: "bad " + KeyCtrlPara + " " + strconv.Quote(raw)}
	}

	return Request{ID: id, Kind: SetParam, Param: p, Value: uint16(v)}, nil
}

func lower(s string) string { return strings.ToLower(s) }
