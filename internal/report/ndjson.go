package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/crimson-sun/vectrace/internal/model"
)

var parserPool fastjson.ParserPool

// ReadNDJSON reads records written by the ndjson output. Lines that are
// not JSON objects with timestamp and receiver_node_id are skipped and
// counted.
func ReadNDJSON(r io.Reader) ([]model.CommunicationRecord, int, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		recs    []model.CommunicationRecord
		skipped int
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := p.Parse(line)
		if err != nil || v.Type() != fastjson.TypeObject {
			skipped++
			continue
		}
		if v.Get("timestamp") == nil || v.Get("receiver_node_id") == nil {
			skipped++
			continue
		}
		recs = append(recs, model.CommunicationRecord{
			Timestamp:        v.GetFloat64("timestamp"),
			SenderID:         v.GetInt("sender_node_id"),
			ReceiverID:       v.GetInt("receiver_node_id"),
			PacketSize:       v.GetInt("packet_size"),
			InterArrivalTime: v.GetFloat64("inter_arrival_time"),
			PacketType:       string(v.GetStringBytes("packet_type")),
			SenderIsAttacker: truthy(v.Get("is_sender_attacker")),
			Label:            string(v.GetStringBytes("label")),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("report: read ndjson: %w", err)
	}
	return recs, skipped, nil
}

// truthy accepts true/false as well as 1/0.
func truthy(v *fastjson.Value) bool {
	if v == nil {
		return false
	}
	switch v.Type() {
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeNumber:
		return v.GetFloat64() != 0
	default:
		return false
	}
}
