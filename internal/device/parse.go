package device

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Slave is one line of `ethercat slaves` output.
type Slave struct {
	Position int
	Alias    uint16
	Relative int
	State    string
	Name     string
}

// ParseSlaves parses `ethercat slaves` output, e.g.
//
//	0  0:0  PREOP  +  EK1100 EtherCAT-Koppler (2A E-Bus)
//	1  0:1  PREOP  +  EL2004 4K. Dig. Ausgang 24V, 0.5A
func ParseSlaves(out []byte) ([]Slave, error) {
	var slaves []Slave
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("malformed slave line %q", line)
		}

		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed position in %q: %w", line, err)
		}

		aliasRel := strings.SplitN(fields[1], ":", 2)
		if len(aliasRel) != 2 {
			return nil, fmt.Errorf("malformed alias:relative in %q", line)
		}
		alias, err := strconv.ParseUint(aliasRel[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("malformed alias in %q: %w", line, err)
		}
		rel, err := strconv.Atoi(aliasRel[1])
		if err != nil {
			return nil, fmt.Errorf("malformed relative position in %q: %w", line, err)
		}

		s := Slave{
			Position: pos,
			Alias:    uint16(alias),
			Relative: rel,
			State:    fields[2],
		}
		// fields[3] is the error flag column; the name is the rest.
		if len(fields) > 4 {
			s.Name = strings.Join(fields[4:], " ")
		}
		slaves = append(slaves, s)
	}
	return slaves, scanner.Err()
}

// String renders a slave for selection lists.
func (s Slave) String() string {
	if s.Name == "" {
		return fmt.Sprintf("%d  %s", s.Position, s.State)
	}
	return fmt.Sprintf("%d  %s  %s", s.Position, s.State, s.Name)
}
