package workspace

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"cobranca-service/internal/core/bulk"
	"cobranca-service/internal/core/classify"
	"cobranca-service/internal/core/clients"
	"cobranca-service/internal/core/export"
	"cobranca-service/internal/core/identity"
	"cobranca-service/internal/core/importer"
	"cobranca-service/internal/core/messaging"
	"cobranca-service/internal/core/promises"
	"cobranca-service/internal/domain"
	"cobranca-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const planilha = "Relatório de cobrança;;\n" +
	"CPF;Nome;Valor;Vencimento;Telefone;Situação\n" +
	"123.456.789-00;Ana Souza;R$ 100,00;14/03/2024;(11) 98765-4321;Em aberto\n" +
	";Bruno;50;06/03/2024;(21) 91234-5678;Em aberto\n" +
	";Carla;80;15/03/2024;;Pago\n" +
	";;;;;\n"

var (
	fixedNow = time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	today    = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

func open(t *testing.T, kv storage.KV) *Workspace {
	t.Helper()
	logger := zap.NewNop()
	cl := clients.NewStore(storage.NewJSONRepository(kv, clients.RepositoryKey, clients.Empty, logger), logger)
	pr := promises.NewStore(storage.NewJSONRepository(kv, promises.RepositoryKey, promises.Empty, logger), logger)
	return New(cl, pr, importer.NewService(logger), logger, WithClock(func() time.Time { return fixedNow }))
}

func newKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.NewFileKV(t.TempDir())
	require.NoError(t, err)
	return kv
}

func ids(records []domain.ClientRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestImportAndCompose(t *testing.T) {
	w := open(t, newKV(t))

	manual, err := w.AddClient(clients.NewClient{Name: "Manual", Phone: "11 90000-0000"})
	require.NoError(t, err)

	batch, err := w.Import([]byte(planilha), "cobranca.csv", "")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.HeaderRow)
	assert.Equal(t, 3, batch.RowCount)
	assert.Equal(t, "Situação", batch.Mapping[domain.FieldStatus])
	assert.Equal(t, fixedNow, batch.ImportedAt)

	set := w.WorkingSet()
	assert.Equal(t, []string{manual.ID, "imp-1", "imp-2", "imp-3"}, ids(set))
	assert.Equal(t, domain.SourceManual, set[0].Source)
	assert.Equal(t, domain.SourceImported, set[1].Source)

	got, ok := w.Batch()
	require.True(t, ok)
	assert.Equal(t, "cobranca", got.SheetName)
}

func TestReimportReplacesRows(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	_, err = w.Import([]byte("Nome;CPF\nZé;11122233344\n"), "b.csv", "")
	require.NoError(t, err)

	set := w.WorkingSet()
	require.Len(t, set, 1)
	assert.Equal(t, "Zé", set[0].Name)

	assert.Equal(t, 1, w.ClearImport())
	assert.Empty(t, w.WorkingSet())
	_, ok := w.Batch()
	assert.False(t, ok)
}

func TestUnreadableImportKeepsState(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	before := w.WorkingSet()

	_, err = w.Import(nil, "vazio.xlsx", "")
	assert.ErrorIs(t, err, importer.ErrUnreadableWorkbook)
	assert.Equal(t, before, w.WorkingSet())
}

func TestPromiseSurvivesReimport(t *testing.T) {
	kv := newKV(t)
	w := open(t, kv)
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)

	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	entry, err := w.SavePromise("imp-1", &date, "  paga dia 20 ")
	require.NoError(t, err)
	assert.Equal(t, identity.Key("id-digits:12345678900"), entry.Key)
	assert.Equal(t, "paga dia 20", entry.Note)
	assert.Equal(t, "Ana Souza", entry.Snapshot.Name)

	_, err = w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	set := w.WorkingSet()
	require.NotNil(t, set[0].PromiseDate)
	assert.True(t, set[0].PromiseDate.Equal(date))
	assert.Nil(t, set[1].PromiseDate)

	// outro processo, mesmo armazenamento
	reopened := open(t, kv)
	require.Len(t, reopened.Promises(), 1)
	_, err = reopened.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	assert.NotNil(t, reopened.WorkingSet()[0].PromiseDate)
}

func TestSyntheticPromiseKey(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)

	date := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	entry, err := w.SavePromise("imp-3", &date, "")
	require.NoError(t, err)
	assert.Equal(t, identity.Key("record:imp-3"), entry.Key)
	assert.NotNil(t, w.WorkingSet()[2].PromiseDate)

	require.NoError(t, w.DeletePromise(entry.Key))
	assert.Nil(t, w.WorkingSet()[2].PromiseDate)
	assert.ErrorIs(t, w.DeletePromise(entry.Key), ErrPromiseNotFound)
}

func TestPromiseWithoutRecord(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.SavePromise("nao-existe", nil, "")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestPromisePersistsWithoutMatchingRecord(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err = w.SavePromise("imp-2", &date, "")
	require.NoError(t, err)

	w.ClearImport()
	entries := w.Promises()
	require.Len(t, entries, 1)
	assert.Equal(t, "Bruno", entries[0].Snapshot.Name)
}

func TestRecomposeIsIdempotent(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.AddClient(clients.NewClient{NationalID: "123.456.789-00", Name: "Ana manual"})
	require.NoError(t, err)
	_, err = w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err = w.SavePromise("imp-1", &date, "")
	require.NoError(t, err)

	first := w.WorkingSet()
	w.mu.Lock()
	w.recompose()
	w.mu.Unlock()
	assert.Equal(t, first, w.WorkingSet())

	// manual e importado com o mesmo CPF compartilham a promessa sem virar um só registro
	require.Len(t, first, 4)
	assert.NotNil(t, first[0].PromiseDate)
	assert.NotNil(t, first[1].PromiseDate)
}

func TestManualClientsPersist(t *testing.T) {
	kv := newKV(t)
	w := open(t, kv)
	_, err := w.AddClient(clients.NewClient{Name: "Ana"})
	require.NoError(t, err)
	_, err = w.AddClient(clients.NewClient{Name: "Bia"})
	require.NoError(t, err)

	reopened := open(t, kv)
	set := reopened.WorkingSet()
	require.Len(t, set, 2)
	assert.Equal(t, "Bia", set[0].Name)

	n, err := reopened.DeleteAllClients()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, open(t, kv).WorkingSet())
}

func TestViewsAndBulk(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)

	overdue := w.View(classify.Filter{View: classify.ViewOverdue}, today)
	require.Len(t, overdue, 2)
	assert.Equal(t, 1, overdue[0].DaysLate)
	assert.Equal(t, 9, overdue[1].DaysLate)

	assert.Equal(t, []string{"5511987654321"}, w.BulkPhones(classify.Filter{}, bulk.ModeLate1To5, today))
	assert.Equal(t, []string{"5521912345678"}, w.BulkPhones(classify.Filter{}, bulk.ModeBreach, today))
	assert.Empty(t, w.BulkPhones(classify.Filter{}, bulk.ModeDueToday, today))
	assert.Empty(t, w.BulkPhones(classify.Filter{Query: "ana"}, bulk.ModeBreach, today))

	targets := w.BulkTargets(classify.Filter{}, bulk.ModeBreach, "{nome}: {dias} dias", today)
	require.Len(t, targets, 1)
	assert.Equal(t, "https://wa.me/5521912345678?text=Bruno%3A%209%20dias", targets[0].Link)

	s := w.Summary(today)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Paid)
	assert.Equal(t, 2, s.Overdue)
}

func TestMessageLink(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)

	link, err := w.MessageLink("imp-1", "Oi {nome}", today)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511987654321?text=Oi%20Ana", link)

	_, err = w.MessageLink("imp-3", "", today)
	assert.ErrorIs(t, err, messaging.ErrInvalidPhone)

	_, err = w.MessageLink("x", "", today)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestExportFollowsFilter(t *testing.T) {
	w := open(t, newKV(t))
	_, err := w.Import([]byte(planilha), "a.csv", "")
	require.NoError(t, err)

	out, err := w.ExportCSV(classify.Filter{View: classify.ViewPaid}, today, export.CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	r := csv.NewReader(bytes.NewReader(out))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Carla", rows[1][1])
	assert.Equal(t, "Importado", rows[1][9])

	xlsx, err := w.ExportXLSX(classify.Filter{}, today)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
}

type failingKV struct{ storage.KV }

func (failingKV) Put(string, []byte) error { return assert.AnError }

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	w := open(t, failingKV{newKV(t)})

	r, err := w.AddClient(clients.NewClient{Name: "Ana"})
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, "Ana", r.Name)
	assert.Len(t, w.WorkingSet(), 1)
}
