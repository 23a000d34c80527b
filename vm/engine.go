package vm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/govm-net/counter/auth"
	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	// state backends register themselves with the context registry
	_ "github.com/govm-net/counter/context/db"
	_ "github.com/govm-net/counter/context/memory"
)

// Engine executes signed transactions against registered programs, one at a time
type Engine struct {
	mu       sync.Mutex
	config   *Config
	ctx      types.StateContext // State backend
	programs map[core.Address]*program
	metrics  *metrics
}

// Config represents engine configuration
type Config struct {
	ContextType   string                // State backend type, "memory" or "db"
	ContextParams map[string]any        // State backend parameters
	Registerer    prometheus.Registerer // Optional metrics registerer
}

// Call is what a handler sees of the transaction it serves
type Call struct {
	Tx    *auth.Transaction
	State types.StateContext
	Auth  core.Authenticator
	nonce uint64
}

// NewObjectID derives a fresh slot ID from the transaction hash.
func (c *Call) NewObjectID() core.ObjectID {
	c.nonce++
	return core.DeriveObjectID(c.State.TransactionHash(), c.nonce)
}

// Handler serves one program function. The result is returned JSON encoded.
type Handler func(call *Call) (any, error)

type program struct {
	name     string
	handlers map[string]Handler
}

// NewEngine creates an engine with the counter and greeting programs registered
func NewEngine(config *Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, err := context.Get(context.ContextType(config.ContextType), config.ContextParams)
	if err != nil {
		return nil, fmt.Errorf("failed to get state context: %w", err)
	}

	m, err := newMetrics(config.Registerer)
	if err != nil {
		return nil, multierror.Append(fmt.Errorf("failed to register metrics: %w", err), ctx.Close())
	}

	e := &Engine{
		config:   config,
		ctx:      ctx,
		programs: make(map[core.Address]*program),
		metrics:  m,
	}
	if err := e.RegisterProgram("counter", CounterProgramAddress, counterHandlers(CounterProgramAddress)); err != nil {
		return nil, multierror.Append(err, ctx.Close())
	}
	if err := e.RegisterProgram("greeting", GreetingProgramAddress, greetingHandlers(GreetingProgramAddress)); err != nil {
		return nil, multierror.Append(err, ctx.Close())
	}
	return e, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	switch context.ContextType(config.ContextType) {
	case "", context.MemoryContextType, context.DBContextType:
	default:
		return fmt.Errorf("unknown context type: %q", config.ContextType)
	}

	return nil
}

func (e *Engine) GetContext() types.StateContext {
	return e.ctx
}

// RegisterProgram makes handlers callable at address. Function names are
// matched after title-casing, so "increment" reaches "Increment".
func (e *Engine) RegisterProgram(name string, address core.Address, handlers map[string]Handler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.programs[address]; exists {
		return fmt.Errorf("program already registered at %s", address)
	}
	p := &program{name: name, handlers: make(map[string]Handler, len(handlers))}
	for fn, h := range handlers {
		p.handlers[normalizeFunction(fn)] = h
	}
	e.programs[address] = p
	return nil
}

func normalizeFunction(name string) string {
	return cases.Title(language.English, cases.NoLower).String(name)
}

// Execute runs tx and returns the handler result as JSON.
// A signed transaction runs at most once; repeats fail with
// core.ErrDuplicateTransaction, whatever the first run returned.
func (e *Engine) Execute(tx *auth.Transaction) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := normalizeFunction(tx.Function)
	p, exists := e.programs[tx.Program]
	if !exists {
		e.metrics.observe(unknownProgram, fn, resultUnknownProgram)
		return nil, fmt.Errorf("%w: %s", core.ErrContractNotFound, tx.Program)
	}
	handler, exists := p.handlers[fn]
	if !exists {
		e.metrics.observe(p.name, fn, resultUnknownFunction)
		return nil, fmt.Errorf("%w: %s.%s", core.ErrFunctionNotFound, p.name, tx.Function)
	}

	hash := tx.Hash()
	seen, err := e.ctx.SeenTransaction(hash)
	if err != nil {
		e.metrics.observe(p.name, fn, resultError)
		return nil, fmt.Errorf("failed to check transaction: %w", err)
	}
	if seen {
		e.metrics.observe(p.name, fn, resultDuplicate)
		return nil, fmt.Errorf("%w: %s", core.ErrDuplicateTransaction, hash)
	}

	if err := e.ctx.SetTransactionInfo(hash, tx.Sender, tx.Program); err != nil {
		return nil, fmt.Errorf("failed to set transaction info: %w", err)
	}

	// Unsigned calls are not recorded, so a forged copy of a transaction
	// cannot consume its hash before the signed one arrives.
	if tx.Verify() {
		if err := e.ctx.MarkTransaction(hash); err != nil {
			e.metrics.observe(p.name, fn, resultLabel(err))
			return nil, fmt.Errorf("failed to record transaction: %w", err)
		}
	}

	result, err := handler(&Call{
		Tx:    tx,
		State: e.ctx,
		Auth:  auth.ForTransaction(tx),
	})
	if err != nil {
		e.metrics.observe(p.name, fn, resultLabel(err))
		slog.Debug("transaction failed", "tx", hash.String(), "program", p.name, "function", fn, "error", err)
		return nil, err
	}
	e.metrics.observe(p.name, fn, resultOK)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// Close releases the state backend
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result *multierror.Error
	if err := e.ctx.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close state context: %w", err))
	}
	if e.config.Registerer != nil {
		if !e.config.Registerer.Unregister(e.metrics.calls) {
			result = multierror.Append(result, fmt.Errorf("failed to unregister metrics"))
		}
	}
	return result.ErrorOrNil()
}
