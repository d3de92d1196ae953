package journal

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	walletPrefix    = "wallet/"
	blockPrefix     = "block/"
	candidacyPrefix = "candidacy/"
	validatorPrefix = "validator/"
)

// LevelDB keeps the journal in a LevelDB database, one key per record.
type LevelDB struct {
	db *leveldb.DB
	wo *opt.WriteOptions
}

// OpenLevelDB opens (or creates) the journal stored in dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", dir, err)
	}
	log.Println("journal opened at", dir)
	return &LevelDB{db: db, wo: &opt.WriteOptions{Sync: true}}, nil
}

// NewMemLevelDB runs the LevelDB journal on volatile storage.
func NewMemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db, wo: &opt.WriteOptions{}}, nil
}

func walletKey(address string) []byte {
	return []byte(walletPrefix + address)
}

// Indexes are zero padded so a prefix scan returns the blocks of a chain in order.
func blockKey(b *model.Block) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", blockPrefix, b.BranchID, b.Index))
}

func candidacyKey(address string) []byte {
	return []byte(candidacyPrefix + address)
}

func validatorKey(address string) []byte {
	return []byte(validatorPrefix + address)
}

func (l *LevelDB) PutWallet(w model.WalletAccount) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return l.db.Put(walletKey(w.Address), data, l.wo)
}

func (l *LevelDB) PutBlocks(blocks []model.Block) error {
	batch := new(leveldb.Batch)
	for i := range blocks {
		data, err := json.Marshal(&blocks[i])
		if err != nil {
			return err
		}
		batch.Put(blockKey(&blocks[i]), data)
	}
	return l.db.Write(batch, l.wo)
}

func (l *LevelDB) PutCandidacy(c model.Candidacy) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return l.db.Put(candidacyKey(c.Candidate), data, l.wo)
}

func (l *LevelDB) DeleteCandidacy(address string) error {
	return l.db.Delete(candidacyKey(address), l.wo)
}

func (l *LevelDB) PromoteValidator(address string) error {
	batch := new(leveldb.Batch)
	batch.Delete(candidacyKey(address))
	batch.Put(validatorKey(address), []byte{1})
	return l.db.Write(batch, l.wo)
}

func (l *LevelDB) DeleteValidator(address string) error {
	return l.db.Delete(validatorKey(address), l.wo)
}

// scan calls fn for every record under prefix.
func (l *LevelDB) scan(prefix string, fn func(key, value []byte) error) error {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	for iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *LevelDB) Load() (*Snapshot, error) {
	s := &Snapshot{Chains: map[model.ChainID][]model.Block{}}

	err := l.scan(walletPrefix, func(_, value []byte) error {
		var w model.WalletAccount
		if err := json.Unmarshal(value, &w); err != nil {
			return err
		}
		s.Wallets = append(s.Wallets, w)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}

	err = l.scan(blockPrefix, func(_, value []byte) error {
		var b model.Block
		if err := json.Unmarshal(value, &b); err != nil {
			return err
		}
		s.Chains[b.BranchID] = append(s.Chains[b.BranchID], b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}

	err = l.scan(candidacyPrefix, func(_, value []byte) error {
		var c model.Candidacy
		if err := json.Unmarshal(value, &c); err != nil {
			return err
		}
		s.Candidacies = append(s.Candidacies, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load candidacies: %w", err)
	}

	err = l.scan(validatorPrefix, func(key, _ []byte) error {
		s.Validators = append(s.Validators, string(key[len(validatorPrefix):]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load validators: %w", err)
	}
	return s, nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
