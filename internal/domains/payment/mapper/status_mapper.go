package mapper

import (
	"fmt"
	"slices"
	"strings"

	orderModel "resursbank-gateway/internal/domains/order/model"
	"resursbank-gateway/internal/domains/payment/model"
)

// DefaultTable maps each resolved remote flag to a host order status.
var DefaultTable = map[model.RemoteStatus]string{
	model.StatusPending:          orderModel.StatusOnHold,
	model.StatusProcessing:       orderModel.StatusProcessing,
	model.StatusCompleted:        orderModel.StatusCompleted,
	model.StatusAnnulled:         orderModel.StatusCancelled,
	model.StatusCredited:         orderModel.StatusRefunded,
	model.StatusAutoDebited:      orderModel.StatusCompleted,
	model.StatusManualInspection: orderModel.StatusOnHold,
	model.StatusError:            orderModel.StatusOnHold,
}

// StatusMapper turns a remote bitmask into exactly one host order status.
type StatusMapper struct {
	table map[model.RemoteStatus]string
}

// New copies DefaultTable and applies overrides on top.
func New(overrides map[model.RemoteStatus]string) *StatusMapper {
	table := make(map[model.RemoteStatus]string, len(DefaultTable))
	for k, v := range DefaultTable {
		table[k] = v
	}
	for k, v := range overrides {
		table[k] = v
	}
	return &StatusMapper{table: table}
}

// Map resolves the bitmask by priority and looks the winner up in the table.
// ok=false means no flag was set (or the table has no entry): leave the order alone.
func (m *StatusMapper) Map(status model.RemoteStatus) (target string, resolved model.RemoteStatus, ok bool) {
	resolved, ok = status.Resolve()
	if !ok {
		return "", 0, false
	}
	target, ok = m.table[resolved]
	if !ok || target == "" {
		return "", resolved, false
	}
	return target, resolved, true
}

// Table returns a copy of the effective mapping, keyed by flag name.
func (m *StatusMapper) Table() map[string]string {
	out := make(map[string]string, len(m.table))
	for k, v := range m.table {
		out[k.String()] = v
	}
	return out
}

// ParseOverrides reads "FLAG=status,FLAG=status".
func ParseOverrides(raw string) (map[model.RemoteStatus]string, error) {
	overrides := map[model.RemoteStatus]string{}
	if strings.TrimSpace(raw) == "" {
		return overrides, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		name, status, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("invalid status override %q: want FLAG=status", pair)
		}

		flag, err := model.ParseRemoteStatus(name)
		if err != nil {
			return nil, err
		}

		status = strings.ToLower(strings.TrimSpace(status))
		if !slices.Contains(orderModel.KnownStatuses, status) {
			return nil, fmt.Errorf("invalid status override %q: unknown order status %q", pair, status)
		}
		overrides[flag] = status
	}
	return overrides, nil
}
