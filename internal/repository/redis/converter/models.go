package converter

import json "github.com/goccy/go-json"

// QueryEntryRedisModel — закэшированный результат запроса.
// Args хранится рядом со значением, чтобы отличить коллизию хэша ключа от попадания.
type QueryEntryRedisModel struct {
	Op    string          `json:"op"`
	Args  json.RawMessage `json:"args"`
	Value json.RawMessage `json:"value"`
}
