package resmonctl

import (
	"errors"
	"fmt"

	"github.com/mellanox/resmon/internal/counter"
	"github.com/mellanox/resmon/internal/rpc"
	"github.com/mellanox/resmon/internal/source"
)

// handleRPC reads and answers exactly one pending datagram (spec.md
// §4.4/§5: "RPC requests are processed in receive order").
func (l *Loop) handleRPC() {
	req, from, parseErr, err := l.server.ReceiveOne()
	if err != nil {
		l.cfg.Logger.Errorf("resmon: rpc receive: %v", err)
		return
	}
	if parseErr != nil {
		if from != nil {
			_ = l.server.Reply(from, *parseErr)
		}
		return
	}

	resp := l.dispatch(req)
	if err := l.server.Reply(from, resp); err != nil {
		l.cfg.Logger.Errorf("resmon: rpc reply: %v", err)
	}
}

func (l *Loop) dispatch(req rpc.Request) rpc.Response {
	switch req.Method {
	case "ping":
		return rpc.NewResult(req.ID, req.Params)
	case "stop":
		l.requestStop()
		return rpc.NewResult(req.ID, true)
	case "stats":
		return l.handleStats(req)
	default:
		if result, ok, err := l.cfg.Source.HandleRPCMethod(req.Method, req.Params, l.store); ok {
			if err != nil {
				if errors.Is(err, source.ErrInvalidParams) {
					return rpc.NewError(req.ID, rpc.ErrCodeInvalidParams, "invalid params", err.Error())
				}
				return rpc.NewError(req.ID, rpc.ErrCodeEmadFailure, "emad processing failed", err.Error())
			}
			return rpc.NewResult(req.ID, result)
		}
		return rpc.NewError(req.ID, rpc.ErrCodeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method), nil)
	}
}

// counterView is the per-kind object in a "stats" reply (spec.md §4.4).
type counterView struct {
	Name     string `json:"name"`
	Descr    string `json:"descr"`
	Value    int64  `json:"value"`
	Capacity uint64 `json:"capacity"`
}

type statsResult struct {
	Counters []counterView `json:"counters"`
}

func (l *Loop) handleStats(req rpc.Request) rpc.Response {
	capacity, err := l.cfg.Capacity()
	if err != nil {
		return rpc.NewError(req.ID, rpc.ErrCodeCapacity, "capacity query failed", err.Error())
	}

	snap := l.store.CountersSnapshot()
	views := make([]counterView, 0, counter.Count+1)
	for _, k := range counter.All() {
		views = append(views, counterView{
			Name:     k.Name(),
			Descr:    k.Description(),
			Value:    snap.Values[k],
			Capacity: capacity,
		})
	}
	views = append(views, counterView{
		Name:     counter.Total,
		Descr:    "aggregate across all counters",
		Value:    snap.Total,
		Capacity: capacity,
	})

	return rpc.NewResult(req.ID, statsResult{Counters: views})
}
