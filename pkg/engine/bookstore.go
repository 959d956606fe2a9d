package engine

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/vancezuo/parallel-chess/pkg/board"

	"github.com/dgraph-io/badger/v4"
	"github.com/seekerror/logw"
)

// StoreBook is an opening book persisted in a badger database, keyed by
// position hash with the candidate continuations as values. Probes are by
// the current position rather than the move sequence, so transposed lines
// share entries.
type StoreBook struct {
	db *badger.DB
}

// OpenStoreBook opens (creating if necessary) a book database at path. If
// the database is empty and src is non-nil, the given line book is imported:
// every line is replayed from the initial position and each position maps to
// its continuations, with multiplicity.
func OpenStoreBook(ctx context.Context, path string, src *LineBook) (*StoreBook, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open book database: %w", err)
	}
	sb := &StoreBook{db: db}

	empty, err := sb.isEmpty()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if empty && src != nil {
		if err := sb.importLines(ctx, src); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return sb, nil
}

func (sb *StoreBook) Close() error {
	return sb.db.Close()
}

func (sb *StoreBook) Find(ctx context.Context, b *board.Board, line []string) ([]string, error) {
	var ret []string
	err := sb.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(hashKey(b.Hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ret)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("book probe failed: %w", err)
	}
	return ret, nil
}

func (sb *StoreBook) isEmpty() (bool, error) {
	empty := true
	err := sb.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()

		it.Rewind()
		empty = !it.Valid()
		return nil
	})
	return empty, err
}

func (sb *StoreBook) importLines(ctx context.Context, src *LineBook) error {
	entries := map[uint32][]string{}

	b := board.New()
	for _, line := range src.lines {
		b.Init()
		for _, str := range line {
			b.Ply = 0
			m, ok := ResolveMove(b, str)
			if !ok {
				logw.Warningf(ctx, "Skipping book line %v: invalid move %v", line, str)
				break
			}
			hash := b.Hash
			if !b.MakeMove(m) {
				logw.Warningf(ctx, "Skipping book line %v: illegal move %v", line, str)
				break
			}
			b.Ply = 0
			entries[hash] = append(entries[hash], m.String())
		}
	}

	err := sb.db.Update(func(txn *badger.Txn) error {
		for hash, moves := range entries {
			val, err := json.Marshal(moves)
			if err != nil {
				return err
			}
			if err := txn.Set(hashKey(hash), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("book import failed: %w", err)
	}

	logw.Infof(ctx, "Imported %v book positions from %v lines", len(entries), len(src.lines))
	return nil
}

func hashKey(hash uint32) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], hash)
	return key[:]
}
