package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/mitchellh/mapstructure"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultDBPath = "./sqlite.db"
)

// Params configures the db context; decoded from the registry params map
type Params struct {
	DBPath string `mapstructure:"db_path"`
}

// DBObject represents the object in database
type DBObject struct {
	gorm.Model
	ObjectID string `gorm:"column:object_id;not null;uniqueIndex;size:66"`
	Owner    string `gorm:"column:owner_address;not null;index;size:66"`
	Contract string `gorm:"column:contract_address;not null;index;size:66"`
}

// TableName specifies the table name for DBObject
func (DBObject) TableName() string {
	return "objects"
}

// DBObjectField represents a field of an object
type DBObjectField struct {
	gorm.Model
	ObjectID string `gorm:"column:object_id;not null;uniqueIndex:idx_object_field;size:66"`
	Key      string `gorm:"column:field_key;not null;uniqueIndex:idx_object_field;size:255"`
	Value    []byte `gorm:"column:field_value;type:blob;not null"`
}

// TableName specifies the table name for DBObjectField
func (DBObjectField) TableName() string {
	return "object_fields"
}

// DBEvent represents an event in the database
type DBEvent struct {
	gorm.Model
	TxHash    string `gorm:"column:tx_hash;not null;index;size:66"`
	Contract  string `gorm:"column:contract_address;not null;index;size:66"`
	EventName string `gorm:"column:event_name;not null;index;size:255"`
	KeyValues []byte `gorm:"column:key_values;type:blob;not null"` // JSON encoded key-value pairs
}

// TableName specifies the table name for DBEvent
func (DBEvent) TableName() string {
	return "events"
}

// DBTransaction records a processed transaction
type DBTransaction struct {
	gorm.Model
	Hash     string `gorm:"column:tx_hash;not null;uniqueIndex;size:66"`
	Sender   string `gorm:"column:sender_address;not null;index;size:66"`
	Contract string `gorm:"column:contract_address;not null;size:66"`
}

// TableName specifies the table name for DBTransaction
func (DBTransaction) TableName() string {
	return "transactions"
}

// Context implements the StateContext interface using SQLite with GORM
type Context struct {
	db *gorm.DB

	// Runtime state
	sender   core.Address
	contract core.Address
	txHash   core.Hash
}

func init() {
	context.Register(context.DBContextType, NewContext)
}

// NewContext opens (or creates) the SQLite database named by params["db_path"]
func NewContext(params map[string]any) (types.StateContext, error) {
	var p Params
	if err := mapstructure.Decode(params, &p); err != nil {
		return nil, fmt.Errorf("invalid db params: %w", err)
	}
	if p.DBPath == "" {
		p.DBPath = defaultDBPath
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(p.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(p.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx := &Context{db: db}
	if err := ctx.initDB(); err != nil {
		ctx.Close()
		return nil, err
	}
	return ctx, nil
}

func (c *Context) initDB() error {
	err := c.db.AutoMigrate(
		&DBObject{},
		&DBObjectField{},
		&DBEvent{},
		&DBTransaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (c *Context) SetTransactionInfo(hash core.Hash, sender core.Address, program core.Address) error {
	c.txHash = hash
	c.sender = sender
	c.contract = program
	return nil
}

func (c *Context) Sender() core.Address {
	return c.sender
}

func (c *Context) TransactionHash() core.Hash {
	return c.txHash
}

// SeenTransaction implements types.StateContext
func (c *Context) SeenTransaction(hash core.Hash) (bool, error) {
	var n int64
	if err := c.db.Model(&DBTransaction{}).Where("tx_hash = ?", hash.String()).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check transaction: %w", err)
	}
	return n > 0, nil
}

// MarkTransaction implements types.StateContext. The sender and program are
// taken from the current transaction info.
func (c *Context) MarkTransaction(hash core.Hash) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&DBTransaction{}).Where("tx_hash = ?", hash.String()).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check transaction: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%s: %w", hash, core.ErrDuplicateTransaction)
		}

		record := &DBTransaction{
			Hash:     hash.String(),
			Sender:   c.sender.String(),
			Contract: c.contract.String(),
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
}

// CreateObjectWithID implements types.StateContext
func (c *Context) CreateObjectWithID(contract core.Address, id core.ObjectID, fields map[string][]byte) (types.VMObject, error) {
	err := c.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&DBObject{}).Where("object_id = ?", id.String()).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check object: %w: %w", core.ErrAllocation, err)
		}
		if n > 0 {
			return fmt.Errorf("object %s already exists: %w", id, core.ErrAllocation)
		}

		dbObj := &DBObject{
			ObjectID: id.String(),
			Owner:    contract.String(),
			Contract: contract.String(),
		}
		if err := tx.Create(dbObj).Error; err != nil {
			return fmt.Errorf("failed to create object: %w: %w", core.ErrAllocation, err)
		}

		for key, value := range fields {
			field := &DBObjectField{
				ObjectID: id.String(),
				Key:      key,
				Value:    value,
			}
			if err := tx.Create(field).Error; err != nil {
				return fmt.Errorf("failed to create field %s: %w: %w", key, core.ErrAllocation, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Object{
		ctx:      c,
		id:       id,
		owner:    contract,
		contract: contract,
	}, nil
}

// GetObject implements types.StateContext
func (c *Context) GetObject(contract core.Address, id core.ObjectID) (types.VMObject, error) {
	var dbObj DBObject
	result := c.db.Where("object_id = ? AND contract_address = ?", id.String(), contract.String()).First(&dbObj)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("object %s: %w", id, core.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get object: %w", result.Error)
	}

	return &Object{
		ctx:      c,
		id:       id,
		owner:    core.AddressFromString(dbObj.Owner),
		contract: contract,
	}, nil
}

// Log implements types.StateContext
func (c *Context) Log(contract core.Address, eventName string, keyValues ...any) {
	params := []any{
		"tx", c.txHash.String(),
		"contract", contract,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Info("Contract event", params...)

	data, err := json.Marshal(keyValues)
	if err != nil {
		slog.Error("Failed to marshal event data", "error", err)
		return
	}

	event := &DBEvent{
		TxHash:    c.txHash.String(),
		Contract:  contract.String(),
		EventName: eventName,
		KeyValues: data,
	}
	if err := c.db.Create(event).Error; err != nil {
		slog.Error("Failed to save event", "error", err)
	}
}

// Events returns the stored events for a transaction, oldest first.
// Numbers come back as json.Number so uint64 values survive intact.
func (c *Context) Events(txHash core.Hash) ([]types.Event, error) {
	var rows []DBEvent
	if err := c.db.Where("tx_hash = ?", txHash.String()).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	events := make([]types.Event, 0, len(rows))
	for _, row := range rows {
		var kv []any
		dec := json.NewDecoder(bytes.NewReader(row.KeyValues))
		dec.UseNumber()
		if err := dec.Decode(&kv); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", row.ID, err)
		}
		events = append(events, types.Event{
			TxHash:    core.HashFromString(row.TxHash),
			Contract:  core.AddressFromString(row.Contract),
			Name:      row.EventName,
			KeyValues: kv,
		})
	}
	return events, nil
}

func (c *Context) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Object implements the VMObject interface
type Object struct {
	ctx      *Context
	id       core.ObjectID
	owner    core.Address
	contract core.Address
}

func (o *Object) ID() core.ObjectID {
	return o.id
}

func (o *Object) Owner() core.Address {
	return o.owner
}

func (o *Object) Contract() core.Address {
	return o.contract
}

func (o *Object) Get(contract core.Address, field string) ([]byte, error) {
	if contract != o.contract {
		return nil, fmt.Errorf("invalid contract: %w", core.ErrUnauthorized)
	}

	var dbField DBObjectField
	result := o.ctx.db.Where("object_id = ? AND field_key = ?", o.id.String(), field).First(&dbField)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("field %s: %w", field, core.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get field: %w", result.Error)
	}

	return dbField.Value, nil
}

func (o *Object) Set(contract, sender core.Address, field string, value []byte) error {
	if contract != o.contract {
		return fmt.Errorf("invalid contract: %w", core.ErrUnauthorized)
	}
	if sender != o.owner && contract != o.owner {
		return fmt.Errorf("not owner: %w", core.ErrUnauthorized)
	}

	// Update or create field
	result := o.ctx.db.Where("object_id = ? AND field_key = ?", o.id.String(), field).
		Assign(DBObjectField{Value: value}).
		FirstOrCreate(&DBObjectField{
			ObjectID: o.id.String(),
			Key:      field,
			Value:    value,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update field: %w", result.Error)
	}
	return nil
}
