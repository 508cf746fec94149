package importer

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240101120000
<LANGUAGE>ENG
<FI>
<ORG>TESTBANK
<FID>12345
</FI>
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>9876543210
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101000000
<DTEND>20240131235959
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240105120000
<TRNAMT>-50.00
<FITID>TXN001
<MEMO>Coffee Shop
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240115120000
<TRNAMT>1000.00
<FITID>TXN002
<NAME>Paycheck
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2000.00
<DTASOF>20240131235959
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestOFXParser_CreditCard(t *testing.T) {
	f, err := os.Open("../../testdata/statement.ofx")
	require.NoError(t, err)
	defer f.Close()

	stmt, err := (&OFXParser{}).Parse(f)
	require.NoError(t, err)

	assert.Equal(t, "TESTCARD", stmt.Institution)
	assert.Equal(t, "4111222233334444", stmt.AccountID)
	assert.Equal(t, "credit", stmt.AccountType)
	assert.Equal(t, "-35.00", stmt.Balance.StringFixed(2))

	require.Len(t, stmt.Transactions, 3)
	first := stmt.Transactions[0]
	assert.Equal(t, "T001", first.ID)
	assert.Equal(t, "Store A", first.Counterparty)
	assert.Equal(t, "-25.00", first.Amount.StringFixed(2))
	assert.True(t, first.PostedAt.Equal(time.Date(2020, 7, 2, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, "15.00", stmt.Transactions[1].Amount.StringFixed(2))
	assert.Equal(t, "Hardware", stmt.Transactions[2].Memo)
}

func TestOFXParser_Bank(t *testing.T) {
	stmt, err := (&OFXParser{}).Parse(strings.NewReader(bankOFX))
	require.NoError(t, err)

	assert.Equal(t, "TESTBANK", stmt.Institution)
	assert.Equal(t, "9876543210", stmt.AccountID)
	assert.Equal(t, "checking", stmt.AccountType)
	assert.Equal(t, "2000.00", stmt.Balance.StringFixed(2))
	assert.True(t, stmt.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.Len(t, stmt.Transactions, 2)
	// NAME is missing, so MEMO stands in.
	assert.Equal(t, "Coffee Shop", stmt.Transactions[0].Counterparty)
	assert.Equal(t, "Paycheck", stmt.Transactions[1].Counterparty)
}

func TestOFXParser_Invalid(t *testing.T) {
	_, err := (&OFXParser{}).Parse(strings.NewReader("This is not OFX content"))
	assert.ErrorContains(t, err, "reading OFX")
}

func TestOFXParser_Format(t *testing.T) {
	assert.Equal(t, "ofx", (&OFXParser{}).Format())
}
