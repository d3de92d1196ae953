package visualize

import (
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView() model.ChainView {
	tx := utils.NewTransaction("Finance", "Health", 2500, time.Unix(10, 0))
	genesis := utils.CreateNewBlock(model.MainChain, nil, nil, 1)
	b1 := utils.CreateNewBlock(model.MainChain, &genesis, []model.Transaction{tx}, 2)
	b2 := utils.CreateNewBlock(model.MainChain, &b1, nil, 3)
	branch := utils.CreateNewBlock(model.BranchOf("Finance"), nil, nil, 2)
	return model.ChainView{
		MainChain: []model.Block{genesis, b1, b2},
		Branches:  map[string][]model.Block{"Finance": {branch}},
	}
}

func TestShortenString(t *testing.T) {
	assert.Equal(t, "abc...ghi", shortenString("abcdefghi"))
	assert.Equal(t, "abcd", shortenString("abcd"))
}

func TestConstructDataKeepsLastBlocks(t *testing.T) {
	l := constructData(testView(), 2)
	require.NotNil(t, l.main.head)
	assert.Equal(t, int64(1), l.main.head.index)
	require.NotNil(t, l.main.head.next)
	assert.Equal(t, int64(2), l.main.head.next.index)
	assert.Nil(t, l.main.head.next.next)
	assert.Len(t, l.main.head.txs, 1)
	assert.Equal(t, "Finance", l.main.head.txs[0].sender)

	require.Len(t, l.branches, 1)
	assert.Equal(t, "Finance", l.branches[0].id)

	all := constructData(testView(), 0)
	assert.Equal(t, int64(0), all.main.head.index)
}

func TestRenderWritesGraph(t *testing.T) {
	dir := t.TempDir()
	path, err := Render(testView(), 5, dir, "node")
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	data, err := ioutil.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data), "digraph")
}
