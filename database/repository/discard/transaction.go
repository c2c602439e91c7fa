package discardRepo

import (
	"context"
	"errors"
	"fmt"

	"recicleaqui/database/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// writeConflictCode is the server's WriteConflict error code.
const writeConflictCode = 112

// asStaleWrite reports a transaction write conflict as ErrStaleWrite,
// keeping the server error in the chain. Other errors are returned as is.
func asStaleWrite(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(writeConflictCode) || se.HasErrorLabel("TransientTransactionError")) {
		return fmt.Errorf("%w: %w", repository.ErrStaleWrite, err)
	}
	return err
}

// WithTransaction runs fn in a MongoDB transaction. The context handed to fn
// carries the session, so repository calls made with it join the
// transaction. fn runs once; a write conflict with a concurrent transaction
// surfaces as repository.ErrStaleWrite.
// Transactions need a replica set or sharded cluster.
func (r *MongoDiscardRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return asStaleWrite(err)
		}
		if err := sc.CommitTransaction(sc); err != nil {
			return fmt.Errorf("commit transaction: %w", asStaleWrite(err))
		}
		return nil
	})
}
