package usecase

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"

	"github.com/trebuchet-org/fundme-cli/internal/domain"
	"github.com/trebuchet-org/fundme-cli/internal/domain/config"
)

// LocalNodeNetwork is the development network a managed anvil node serves
const LocalNodeNetwork = "localhost"

// AnvilOperation is one lifecycle step of the local node
type AnvilOperation string

const (
	AnvilStart   AnvilOperation = "start"
	AnvilStop    AnvilOperation = "stop"
	AnvilRestart AnvilOperation = "restart"
	AnvilStatus  AnvilOperation = "status"
	AnvilLogs    AnvilOperation = "logs"
)

// ManageAnvilParams selects the operation. Port and ChainID are optional and,
// when set, must agree with the localhost network in fundme.toml.
type ManageAnvilParams struct {
	Operation AnvilOperation
	Port      string
	ChainID   string
}

// ManageAnvilResult describes the node after the operation
type ManageAnvilResult struct {
	Operation AnvilOperation
	Network   string
	ChainID   uint64 // expected by the network config
	Node      *domain.AnvilInstance
	Status    *domain.AnvilStatus
	Message   string
}

// ManageAnvil runs the anvil node behind the localhost development network,
// so deploy, fund and the local suite can target it with --network localhost.
type ManageAnvil struct {
	nodes    AnvilManager
	networks NetworkResolver
	progress ProgressSink
}

// NewManageAnvil creates a new anvil management use case
func NewManageAnvil(nodes AnvilManager, networks NetworkResolver, progress ProgressSink) *ManageAnvil {
	return &ManageAnvil{
		nodes:    nodes,
		networks: networks,
		progress: progress,
	}
}

// Execute performs the operation against the node derived from the localhost network
func (m *ManageAnvil) Execute(ctx context.Context, params ManageAnvilParams) (*ManageAnvilResult, error) {
	switch params.Operation {
	case AnvilStart, AnvilStop, AnvilRestart, AnvilStatus, AnvilLogs:
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}

	network, err := m.networks.ResolveNetwork(ctx, LocalNodeNetwork)
	if err != nil {
		return nil, fmt.Errorf("anvil serves the %s network: %w", LocalNodeNetwork, err)
	}
	node, err := nodeForNetwork(network, params)
	if err != nil {
		return nil, err
	}

	result := &ManageAnvilResult{
		Operation: params.Operation,
		Network:   network.Name,
		ChainID:   network.ChainID,
		Node:      node,
	}

	switch params.Operation {
	case AnvilStart:
		err = m.start(ctx, result)
	case AnvilStop:
		err = m.stop(ctx, result)
	case AnvilRestart:
		m.progress.Info(fmt.Sprintf("Restarting anvil for %s...", result.Network))
		if err = m.stop(ctx, result); err == nil {
			err = m.start(ctx, result)
		}
	case AnvilStatus, AnvilLogs:
		result.Status, err = m.inspect(ctx, result)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StreamLogs follows the node's log file into w until ctx is cancelled
func (m *ManageAnvil) StreamLogs(ctx context.Context, node *domain.AnvilInstance, w io.Writer) error {
	return m.nodes.StreamLogs(ctx, node, w)
}

func (m *ManageAnvil) start(ctx context.Context, r *ManageAnvilResult) error {
	if status, err := m.nodes.GetStatus(ctx, r.Node); err == nil && status.Running {
		return fmt.Errorf("anvil for %s is already running (PID %d)", r.Network, status.PID)
	}

	m.progress.Info(fmt.Sprintf("Starting anvil for %s on port %s (chain %s)...", r.Network, r.Node.Port, r.Node.ChainID))
	if err := m.nodes.Start(ctx, r.Node); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	status, err := m.inspect(ctx, r)
	if err != nil {
		return err
	}
	if status.Error != "" {
		return fmt.Errorf("anvil for %s started but %s", r.Network, status.Error)
	}

	r.Status = status
	r.Message = fmt.Sprintf("anvil for %s started with PID %d, RPC at %s", r.Network, status.PID, status.RPCURL)
	return nil
}

func (m *ManageAnvil) stop(ctx context.Context, r *ManageAnvilResult) error {
	status, err := m.nodes.GetStatus(ctx, r.Node)
	if err != nil || !status.Running {
		r.Message = fmt.Sprintf("anvil for %s is not running", r.Network)
		return nil
	}

	m.progress.Info(fmt.Sprintf("Stopping anvil for %s (PID %d)...", r.Network, status.PID))
	if err := m.nodes.Stop(ctx, r.Node); err != nil {
		return fmt.Errorf("failed to stop anvil: %w", err)
	}
	r.Message = fmt.Sprintf("anvil for %s stopped", r.Network)
	return nil
}

// inspect reads the node status and flags a node answering with a chain ID
// other than the one the network is configured with
func (m *ManageAnvil) inspect(ctx context.Context, r *ManageAnvilResult) (*domain.AnvilStatus, error) {
	status, err := m.nodes.GetStatus(ctx, r.Node)
	if err != nil {
		return nil, fmt.Errorf("failed to get anvil status: %w", err)
	}
	if status.RPCHealthy && r.ChainID != 0 && status.ChainID != r.ChainID {
		status.Error = fmt.Sprintf("node reports chain %d, %s expects %d: %v",
			status.ChainID, r.Network, r.ChainID, domain.ErrNetworkMismatch)
	}
	return status, nil
}

// nodeForNetwork derives the node's port and chain ID from the network's
// rpc_url and chain_id, rejecting overrides that would disagree with them
func nodeForNetwork(network *config.Network, params ManageAnvilParams) (*domain.AnvilInstance, error) {
	if network.Simulated || network.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no rpc_url for anvil to serve", network.Name)
	}

	u, err := url.Parse(network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rpc_url for %s: %w", network.Name, err)
	}
	if !isLocalHost(u.Hostname()) {
		return nil, fmt.Errorf("rpc_url %s of %s is not a local address", network.RPCURL, network.Name)
	}
	port := u.Port()
	if port == "" {
		return nil, fmt.Errorf("rpc_url %s of %s has no port", network.RPCURL, network.Name)
	}
	chainID := ""
	if network.ChainID != 0 {
		chainID = strconv.FormatUint(network.ChainID, 10)
	}

	if params.Port != "" && params.Port != port {
		return nil, fmt.Errorf("--port %s does not match %s rpc_url %s: %w",
			params.Port, network.Name, network.RPCURL, domain.ErrNetworkMismatch)
	}
	if params.ChainID != "" && params.ChainID != chainID {
		return nil, fmt.Errorf("--chain-id %s does not match %s chain_id %d: %w",
			params.ChainID, network.Name, network.ChainID, domain.ErrNetworkMismatch)
	}

	return &domain.AnvilInstance{
		Name:    network.Name,
		Network: network.Name,
		Port:    port,
		ChainID: chainID,
	}, nil
}

func isLocalHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}
