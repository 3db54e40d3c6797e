// Package app hosts the auction program as an ABCI application. Every
// transaction carries exactly one instruction; the app verifies the envelope
// and hands the instruction to the dispatcher, which runs it in a write batch
// of its own on top of the block's pending state.
package app

import (
	"errors"
	"fmt"
	"sync"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/auctiond/internal/auction"
	"github.com/tendermint/auctiond/internal/custody"
	"github.com/tendermint/auctiond/internal/dispatch"
	"github.com/tendermint/auctiond/internal/ledger"
	"github.com/tendermint/auctiond/libs/log"
	"github.com/tendermint/auctiond/types"
	"github.com/tendermint/auctiond/version"
)

// AppName is reported in ResponseInfo.
const AppName = "auctiond"

var _ abci.Application = (*Application)(nil)

// Application is the auction ABCI application.
type Application struct {
	abci.BaseApplication

	mtx     sync.Mutex
	db      dbm.DB
	logger  log.Logger
	metrics *Metrics

	state      State
	dispatcher *dispatch.Dispatcher

	// block buffers the writes of the block being executed, check buffers
	// the writes of CheckTx since the last commit.
	block       *ledger.Cache
	blockHeight int64
	blockTime   int64
	check       *ledger.Cache
}

// Option sets an optional parameter of the Application.
type Option func(*Application)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(app *Application) { app.logger = logger }
}

// WithMetrics sets the metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(app *Application) { app.metrics = metrics }
}

// NewApplication loads the last committed state from db.
func NewApplication(db dbm.DB, opts ...Option) (*Application, error) {
	state, err := loadState(db)
	if err != nil {
		return nil, err
	}
	app := &Application{
		db:      db,
		logger:  log.NewNopLogger(),
		metrics: NopMetrics(),
		state:   state,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.reset()
	app.metrics.Height.Set(float64(state.Height))
	return app, nil
}

// reset drops pending writes and rebuilds the executor from committed params.
func (app *Application) reset() {
	app.block = nil
	app.check = ledger.NewCache(app.db)
	app.blockTime = app.state.BlockTime
	app.dispatcher = dispatch.New(auction.NewMachine(app.state.Params, custody.New()))
}

// LastState returns the last committed state.
func (app *Application) LastState() State {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	return app.state
}

func (app *Application) Info(req abci.RequestInfo) abci.ResponseInfo {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return abci.ResponseInfo{
		Data:             AppName,
		Version:          version.Version,
		AppVersion:       version.AppProtocol,
		LastBlockHeight:  app.state.Height,
		LastBlockAppHash: app.state.AppHash,
	}
}

// InitChain stores the genesis params and funds the genesis wallets. The
// writes are committed with the first block.
func (app *Application) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	gs, err := types.GenesisStateFromJSON(req.AppStateBytes)
	if err != nil {
		panic(fmt.Errorf("invalid genesis app state: %w", err))
	}

	app.state.ChainID = req.ChainId
	app.state.Params = gs.Params
	app.state.BlockTime = req.Time.Unix()
	app.reset()

	app.block = ledger.NewCache(app.db)
	l := ledger.New(app.block)
	for _, acc := range gs.Accounts {
		if err := l.SetAccount(acc.Address, types.NewWallet(acc.Balance)); err != nil {
			panic(err)
		}
	}
	app.logger.Info("initialized chain",
		"chain_id", req.ChainId,
		"accounts", len(gs.Accounts),
		"minimum_balance", gs.Params.MinimumBalance)
	return abci.ResponseInitChain{}
}

func (app *Application) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.block == nil {
		app.block = ledger.NewCache(app.db)
	}
	app.blockHeight = req.Header.Height
	app.blockTime = req.Header.Time.Unix()
	return abci.ResponseBeginBlock{}
}

func (app *Application) CheckTx(req abci.RequestCheckTx) abci.ResponseCheckTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	res, err := app.execute(app.check, req.Tx, app.state.Height+1)
	if err != nil {
		app.metrics.RejectedTxs.With("result", errorName(err)).Add(1)
		return abci.ResponseCheckTx{
			Code:      types.CodeOf(err),
			Codespace: types.Codespace,
			Log:       err.Error(),
		}
	}
	return abci.ResponseCheckTx{
		Code:      types.CodeTypeOK,
		GasWanted: 1,
		Log:       res.Opcode.String(),
	}
}

func (app *Application) DeliverTx(req abci.RequestDeliverTx) abci.ResponseDeliverTx {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.block == nil {
		app.block = ledger.NewCache(app.db)
	}
	res, err := app.execute(app.block, req.Tx, app.blockHeight)
	if err != nil {
		if errors.Is(err, types.ErrInsufficientEscrow) {
			app.metrics.EscrowViolations.Add(1)
			app.logger.Error("escrow invariant violated", "height", app.blockHeight, "err", err)
		} else {
			app.logger.Debug("rejected transaction",
				"height", app.blockHeight,
				"tx", log.NewHexadecimal(tmhash.Sum(req.Tx)),
				"err", err)
		}
		app.metrics.DeliveredTxs.With("instruction", "unknown", "result", errorName(err)).Add(1)
		return abci.ResponseDeliverTx{
			Code:      types.CodeOf(err),
			Codespace: types.Codespace,
			Log:       err.Error(),
		}
	}

	app.metrics.DeliveredTxs.With("instruction", res.Opcode.String(), "result", "ok").Add(1)
	if res.Opcode == types.OpPlaceBid {
		app.metrics.BidAmount.Observe(float64(res.Record.HighestBid))
	}
	app.logger.Info("executed instruction",
		"height", app.blockHeight,
		"instruction", res.Opcode,
		"auction", res.Auction,
		"phase", res.Record.Phase)
	return abci.ResponseDeliverTx{
		Code:   types.CodeTypeOK,
		Log:    res.Opcode.String(),
		Events: []abci.Event{auctionEvent(res)},
	}
}

func (app *Application) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the block's writes together with the new app state in one
// batch.
func (app *Application) Commit() abci.ResponseCommit {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	block := app.block
	if block == nil {
		block = ledger.NewCache(app.db)
	}
	height := app.blockHeight
	if height == 0 {
		height = app.state.Height + 1
	}
	changes := block.Changes()

	next := app.state
	next.Height = height
	next.BlockTime = app.blockTime
	next.AppHash = nextAppHash(app.state.AppHash, height, changes)

	batch := app.db.NewBatch()
	defer batch.Close()
	if err := block.WriteTo(batch); err != nil {
		panic(err)
	}
	if err := next.save(batch); err != nil {
		panic(err)
	}
	if err := batch.WriteSync(); err != nil {
		panic(err)
	}

	app.state = next
	app.blockHeight = 0
	app.reset()

	app.metrics.Height.Set(float64(height))
	app.metrics.BlockWrites.Observe(float64(len(changes)))
	app.logger.Debug("committed block", "height", height, "writes", len(changes), "app_hash", next.AppHash)
	return abci.ResponseCommit{Data: next.AppHash}
}

// execute decodes and authenticates txBytes and runs its instruction on top
// of kv. The transaction is recorded in kv only if the instruction succeeds.
func (app *Application) execute(kv ledger.KV, txBytes []byte, height int64) (*dispatch.Result, error) {
	tx, err := types.UnmarshalTx(txBytes)
	if err != nil {
		return nil, err
	}
	signers, err := tx.VerifySignatures(app.state.ChainID)
	if err != nil {
		return nil, err
	}

	key := tx.Key(app.state.ChainID)
	l := ledger.New(kv)
	seen, err := l.HasTx(key)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, fmt.Errorf("%w: %X", types.ErrTxReplay, key)
	}

	res, err := app.dispatcher.Execute(kv, app.blockTime, tx, signers)
	if err != nil {
		return nil, err
	}
	if err := l.MarkTx(key, height); err != nil {
		return nil, err
	}
	return res, nil
}

func errorName(err error) string {
	var e *types.Error
	if errors.As(err, &e) {
		return e.Name()
	}
	return "Internal"
}
