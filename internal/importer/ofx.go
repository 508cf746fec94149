package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/mol3earth/ofx/internal/id"
	"github.com/mol3earth/ofx/internal/model"
)

// OFXParser parses OFX/QFX bank and credit card statements.
type OFXParser struct{}

// Format returns the parser name.
func (p *OFXParser) Format() string { return "ofx" }

// Parse reads an OFX document and converts its first statement.
func (p *OFXParser) Parse(r io.Reader) (*model.Statement, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX: %w", err)
	}
	return FromOFXResponse(resp)
}

// FromOFXResponse converts the first credit card or bank statement in resp.
func FromOFXResponse(resp *ofxgo.Response) (*model.Statement, error) {
	institution := resp.Signon.Org.String()

	if len(resp.CreditCard) > 0 {
		cc, ok := resp.CreditCard[0].(*ofxgo.CCStatementResponse)
		if !ok {
			return nil, fmt.Errorf("unexpected credit card message %T", resp.CreditCard[0])
		}
		stmt := &model.Statement{
			Institution: institution,
			AccountID:   cc.CCAcctFrom.AcctID.String(),
			AccountType: "credit",
		}
		if err := fillStatement(stmt, cc.BankTranList, cc.BalAmt, cc.DtAsOf); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	if len(resp.Bank) > 0 {
		bank, ok := resp.Bank[0].(*ofxgo.StatementResponse)
		if !ok {
			return nil, fmt.Errorf("unexpected bank message %T", resp.Bank[0])
		}
		stmt := &model.Statement{
			Institution: institution,
			AccountID:   bank.BankAcctFrom.AcctID.String(),
			AccountType: strings.ToLower(bank.BankAcctFrom.AcctType.String()),
		}
		if err := fillStatement(stmt, bank.BankTranList, bank.BalAmt, bank.DtAsOf); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	return nil, errors.New("no bank or credit card statement in OFX response")
}

func fillStatement(stmt *model.Statement, list *ofxgo.TransactionList, balance ofxgo.Amount, asOf ofxgo.Date) error {
	bal, err := amountToDecimal(balance)
	if err != nil {
		return fmt.Errorf("parsing ledger balance: %w", err)
	}
	stmt.Balance = bal
	stmt.BalanceAsOf = asOf.Time

	if list == nil {
		return nil
	}
	stmt.Start = list.DtStart.Time
	stmt.End = list.DtEnd.Time

	var ids id.Sequencer
	for i, t := range list.Transactions {
		amount, err := amountToDecimal(t.TrnAmt)
		if err != nil {
			stmt.Rejected = append(stmt.Rejected, model.RejectedRecord{Row: i + 1, Reason: fmt.Sprintf("parsing amount: %v", err)})
			continue
		}
		txnID := t.FiTID.String()
		if txnID == "" && !t.DtPosted.IsZero() {
			txnID = ids.Next(t.DtPosted.Time)
		}
		// A missing DTPOSTED stays zero so the aggregator flags it as malformed.
		stmt.Transactions = append(stmt.Transactions, model.Transaction{
			ID:           txnID,
			PostedAt:     t.DtPosted.Time,
			Amount:       amount,
			Counterparty: counterparty(t),
			Memo:         strings.TrimSpace(t.Memo.String()),
		})
	}
	return nil
}

// counterparty prefers NAME, then PAYEE>NAME, then MEMO.
func counterparty(t ofxgo.Transaction) string {
	if name := strings.TrimSpace(t.Name.String()); name != "" {
		return name
	}
	if t.Payee != nil {
		if name := strings.TrimSpace(t.Payee.Name.String()); name != "" {
			return name
		}
	}
	return strings.TrimSpace(t.Memo.String())
}

func amountToDecimal(a ofxgo.Amount) (decimal.Decimal, error) {
	return decimal.NewFromString(a.Rat.FloatString(6))
}
