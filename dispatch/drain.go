package dispatch

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

const receiptsDrainingKey = "DISPATCH:RECEIPTS:CHECKPOINT"

func (d *Dispatcher) drainReceipts(ctx context.Context, batch int) {
	for {
		checkpoint, err := d.readReceiptsCheckpoint()
		if err != nil {
			logger.Printf("readReceiptsCheckpoint() => %v\n", err)
			return
		}
		receipts, err := d.invoker.ReadReceipts(ctx, checkpoint, batch)
		if err != nil {
			logger.Printf("ReadReceipts(%v, %d) => %v\n", checkpoint, batch, err)
			return
		}

		for _, r := range receipts {
			err = d.settleTransaction(r)
			if err != nil {
				logger.Printf("settleTransaction(%s) => %v\n", r.TraceId, err)
				break
			}
			checkpoint = r.UpdatedAt
		}

		err = d.writeReceiptsCheckpoint(checkpoint)
		if err != nil {
			logger.Printf("writeReceiptsCheckpoint(%v) => %v\n", checkpoint, err)
			return
		}
		if len(receipts) < batch/2 {
			return
		}
	}
}

func (d *Dispatcher) settleTransaction(r *Receipt) error {
	tx, err := d.store.ReadTransaction(r.TraceId)
	if err != nil || tx == nil {
		return err
	}
	// an initial transaction with a receipt was sent before its state was written
	if tx.Settled() {
		return nil
	}
	tx.Settle(r.TransactionState(), []byte(r.Result), d.clock.Now())
	err = d.store.WriteTransaction(tx)
	if err != nil {
		return err
	}
	d.metrics.ObserveTransaction(tx)
	logger.Verbosef("Dispatcher.settleTransaction(%s, %s) => %s\n", tx.TraceId, tx.Receiver, tx.StateName())
	return nil
}

func (d *Dispatcher) readReceiptsCheckpoint() (time.Time, error) {
	val, err := d.store.ReadProperty([]byte(receiptsDrainingKey))
	if err != nil || len(val) == 0 {
		return time.Time{}, err
	}
	ts := int64(binary.BigEndian.Uint64(val))
	return time.Unix(0, ts), nil
}

func (d *Dispatcher) writeReceiptsCheckpoint(ckpt time.Time) error {
	if ckpt.IsZero() {
		return nil
	}
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(ckpt.UnixNano()))
	return d.store.WriteProperty([]byte(receiptsDrainingKey), val)
}
