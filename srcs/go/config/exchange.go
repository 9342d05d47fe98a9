package config

import (
	"fmt"
	"strings"
)

// Exchange selects how a row gathers its outbound bytes at the coordinator and
// scatters inbound bytes back to the members.
type Exchange int

const (
	// ExchangeCollective uses gather/scatter with per-member varying counts.
	ExchangeCollective Exchange = iota
	// ExchangeAddressed uses one addressed message per member, for platforms whose
	// varying-count collectives mishandle zero-count participants.
	ExchangeAddressed
)

var exchangeNames = map[Exchange]string{
	ExchangeCollective: "collective",
	ExchangeAddressed:  "addressed",
}

func (e Exchange) String() string {
	return exchangeNames[e]
}

func ExchangeNames() []string {
	return []string{ExchangeCollective.String(), ExchangeAddressed.String()}
}

func ParseExchange(val string) (Exchange, error) {
	for e, name := range exchangeNames {
		if strings.EqualFold(name, val) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("invalid exchange %q, options are: %s", val, strings.Join(ExchangeNames(), " | "))
}

// Set implements flag.Value
func (e *Exchange) Set(val string) error {
	value, err := ParseExchange(val)
	if err != nil {
		return err
	}
	*e = value
	return nil
}
