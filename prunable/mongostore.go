// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prunable

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spa-chain/spa-node/digest"
)

// mongoPayload is the BSON-tagged wire shape of a Payload, kept separate
// from Payload itself so the store package, not the domain type, owns
// the persistence encoding.
type mongoPayload struct {
	TxID         int64  `bson:"tx_id"`
	Hash         string `bson:"hash"`
	CipherText   []byte `bson:"ciphertext"`
	Nonce        []byte `bson:"nonce"`
	IsText       bool   `bson:"is_text"`
	IsCompressed bool   `bson:"is_compressed"`
	Timestamp    int32  `bson:"timestamp"`
	Height       int32  `bson:"height"`
}

// MongoStore is a durable Store backed by a single collection, keyed on
// transaction id, the same one-collection, keyed-lookup shape the pack's
// own mongo-driver repository uses for its records.
type MongoStore struct {
	collection *mongo.Collection
	log        *logger.L
}

// NewMongoStore returns a MongoStore backed by db's "prunable_messages"
// collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("prunable_messages"), log: logger.New("prunable")}
}

func (s *MongoStore) Get(ctx context.Context, txID int64) (Payload, bool, error) {
	var doc mongoPayload
	err := s.collection.FindOne(ctx, bson.M{"tx_id": txID}).Decode(&doc)
	if mongo.ErrNoDocuments == err {
		return Payload{}, false, nil
	}
	if nil != err {
		return Payload{}, false, errors.Wrap(err, "prunable: get failed")
	}
	var h digest.Hash256
	if parseErr := h.UnmarshalText([]byte(doc.Hash)); nil != parseErr {
		return Payload{}, false, errors.Wrap(parseErr, "prunable: stored hash is corrupt")
	}
	return Payload{
		Hash:         h,
		CipherText:   doc.CipherText,
		Nonce:        doc.Nonce,
		IsText:       doc.IsText,
		IsCompressed: doc.IsCompressed,
		Timestamp:    doc.Timestamp,
		Height:       doc.Height,
	}, true, nil
}

func (s *MongoStore) Add(ctx context.Context, txID int64, p Payload) error {
	doc := mongoPayload{
		TxID:         txID,
		Hash:         p.Hash.String(),
		CipherText:   p.CipherText,
		Nonce:        p.Nonce,
		IsText:       p.IsText,
		IsCompressed: p.IsCompressed,
		Timestamp:    p.Timestamp,
		Height:       p.Height,
	}

	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"tx_id": txID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if nil != err {
		return errors.Wrap(err, "prunable: add failed")
	}
	return nil
}

func (s *MongoStore) Prune(ctx context.Context, olderThan int32) (int, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": olderThan}})
	if nil != err {
		return 0, errors.Wrap(err, "prunable: prune failed")
	}
	s.log.Infof("pruned %d payloads older than %d", res.DeletedCount, olderThan)
	return int(res.DeletedCount), nil
}
