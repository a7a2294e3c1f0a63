package database

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "Users"
	matchesCollection   = "Matches"
	purchasesCollection = "Purchases"
)

// Connect opens a Mongo client, verifies connectivity, and returns the
// database handle. UUIDs are stored as their canonical string form, matching
// the existing document layout.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri).SetRegistry(newRegistry())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	return client.Database(dbName), nil
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// newRegistry returns the default BSON registry extended with a string codec
// for uuid.UUID.
func newRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(uuidType, uuidCodec{})
	reg.RegisterTypeDecoder(uuidType, uuidCodec{})
	return reg
}

// uuidCodec encodes uuid.UUID values as BSON strings.
type uuidCodec struct{}

func (uuidCodec) EncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != uuidType {
		return bsoncodec.ValueEncoderError{Name: "uuidCodec", Types: []reflect.Type{uuidType}, Received: val}
	}
	u := val.Interface().(uuid.UUID)
	return vw.WriteString(u.String())
}

func (uuidCodec) DecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != uuidType {
		return bsoncodec.ValueDecoderError{Name: "uuidCodec", Types: []reflect.Type{uuidType}, Received: val}
	}

	switch vr.Type() {
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid uuid string %q: %w", s, err)
		}
		val.Set(reflect.ValueOf(u))
		return nil
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
		val.Set(reflect.ValueOf(uuid.Nil))
		return nil
	default:
		return fmt.Errorf("cannot decode %v into a uuid.UUID", vr.Type())
	}
}
