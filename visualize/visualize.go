package visualize

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/bradleyjkemp/memviz"
)

// Rendering models. Blocks are linked from oldest to newest so the graph reads like the chain.
type transaction struct {
	id       string
	sender   string
	receiver string
	amount   uint64
}

type block struct {
	index    int64
	hash     string
	prevHash string
	txs      []transaction
	next     *block
}

type chain struct {
	id   string
	head *block
}

type ledger struct {
	main     chain
	branches []chain
}

// The hashes are too long to render, keep the first 3 and last 3 characters and replace the
// middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

func blockToBlock(b *model.Block) *block {
	n := &block{
		index:    b.Index,
		hash:     shortenString(b.Hash),
		prevHash: shortenString(b.PrevHash),
	}
	for i := 0; i < len(b.Transactions); i++ {
		tx := b.Transactions[i]
		n.txs = append(n.txs, transaction{id: shortenString(tx.ID), sender: tx.Sender, receiver: tx.Receiver, amount: tx.Amount})
	}
	return n
}

// Link the last d blocks of a chain, every block when d is not positive.
func buildChain(id string, blocks []model.Block, d int) chain {
	start := 0
	if d > 0 && d < len(blocks) {
		start = len(blocks) - d
	}
	c := chain{id: id}
	var tail *block
	for i := start; i < len(blocks); i++ {
		n := blockToBlock(&blocks[i])
		if tail == nil {
			c.head = n
		} else {
			tail.next = n
		}
		tail = n
	}
	return c
}

func constructData(view model.ChainView, d int) ledger {
	l := ledger{main: buildChain(string(model.MainChain), view.MainChain, d)}
	ids := make([]string, 0, len(view.Branches))
	for id := range view.Branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		l.branches = append(l.branches, buildChain(id, view.Branches[id], d))
	}
	return l
}

// Entry to this package, where:
// view: the chains as tracked by the full node.
// d: number of most recent blocks to draw per chain.
// dir: where to write the graph.
// id: unique id of the full node.
// The graphviz source is written to dir and, when dot is installed, rendered to a png next to
// it. Returns the path of the graphviz source.
func Render(view model.ChainView, d int, dir string, id string) (string, error) {
	buf := &bytes.Buffer{}
	data := constructData(view, d)
	memviz.Map(buf, &data)

	fileName := filepath.Join(dir, "chaindata-"+id)
	if err := ioutil.WriteFile(fileName, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	if _, err := exec.LookPath("dot"); err != nil {
		return fileName, nil
	}
	outputName := filepath.Join(dir, "rendered-chain-"+id+".png")
	if err := exec.Command("dot", "-Tpng", fileName, "-o", outputName).Run(); err != nil {
		log.Println("dot failed:", err)
	}
	return fileName, nil
}
