package converter

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// NewQueryEntry сериализует аргументы и результат запроса в запись кэша.
func NewQueryEntry(op string, args, value any) (*QueryEntryRedisModel, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	rawValue, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return &QueryEntryRedisModel{Op: op, Args: rawArgs, Value: rawValue}, nil
}

// Matches сообщает, что запись относится к тем же операции и аргументам.
func (m *QueryEntryRedisModel) Matches(op string, rawArgs []byte) bool {
	return m.Op == op && bytes.Equal(m.Args, rawArgs)
}
