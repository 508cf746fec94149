// Package ofxclient downloads statements from an institution's OFX server.
package ofxclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/mol3earth/ofx/internal/config"
	"github.com/mol3earth/ofx/internal/importer"
	"github.com/mol3earth/ofx/internal/model"
)

// Requester sends an OFX request. ofxgo.Client satisfies it.
type Requester interface {
	Request(r *ofxgo.Request) (*ofxgo.Response, error)
}

// PasswordSource resolves an institution's password.
type PasswordSource interface {
	Password(institution string) (string, error)
}

// Client fetches statements for configured institutions.
type Client struct {
	passwords PasswordSource
	dial      func(url string, bc *ofxgo.BasicClient) Requester
}

// New creates a Client that talks to real OFX servers.
func New(passwords PasswordSource) *Client {
	return &Client{
		passwords: passwords,
		dial: func(url string, bc *ofxgo.BasicClient) Requester {
			return ofxgo.GetClient(url, bc)
		},
	}
}

// NewWithRequester creates a Client that sends every request through req.
func NewWithRequester(passwords PasswordSource, req Requester) *Client {
	return &Client{
		passwords: passwords,
		dial:      func(string, *ofxgo.BasicClient) Requester { return req },
	}
}

// Fetch requests the statement for the named institution covering [start, end].
func (c *Client) Fetch(ctx context.Context, name string, inst config.Institution, start, end time.Time) (*model.Statement, error) {
	password, err := c.passwords.Password(name)
	if err != nil {
		return nil, err
	}

	req, err := BuildRequest(inst, password, start, end)
	if err != nil {
		return nil, err
	}

	version, err := ofxgo.NewOfxVersion(inst.Version)
	if err != nil {
		return nil, fmt.Errorf("institution %s: %w", name, err)
	}
	client := c.dial(inst.URL, &ofxgo.BasicClient{
		AppID:       inst.AppID,
		AppVer:      inst.AppVer,
		SpecVersion: version,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := client.Request(req)
	if err != nil {
		return nil, fmt.Errorf("requesting statement from %s: %w", name, err)
	}

	if resp.Signon.Status.Code != 0 {
		meaning, _ := resp.Signon.Status.CodeMeaning()
		return nil, fmt.Errorf("%s rejected signon: %d %s", name, resp.Signon.Status.Code, meaning)
	}

	stmt, err := importer.FromOFXResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("reading statement from %s: %w", name, err)
	}
	return stmt, nil
}

// BuildRequest creates a statement request for inst. A configured credit
// card takes precedence over a checking account.
func BuildRequest(inst config.Institution, password string, start, end time.Time) (*ofxgo.Request, error) {
	uid, err := ofxgo.RandomUID()
	if err != nil {
		return nil, fmt.Errorf("generating transaction UID: %w", err)
	}

	req := &ofxgo.Request{
		URL: inst.URL,
		Signon: ofxgo.SignonRequest{
			UserID:    ofxgo.String(inst.User),
			UserPass:  ofxgo.String(password),
			Org:       ofxgo.String(inst.Org),
			Fid:       ofxgo.String(inst.FID),
			ClientUID: ofxgo.UID(inst.ClientUID),
		},
	}

	dtStart := &ofxgo.Date{Time: startOfDayUTC(start)}
	dtEnd := &ofxgo.Date{Time: startOfDayUTC(end)}

	switch {
	case inst.CreditCard != "":
		req.CreditCard = append(req.CreditCard, &ofxgo.CCStatementRequest{
			TrnUID:     *uid,
			CCAcctFrom: ofxgo.CCAcct{AcctID: ofxgo.String(inst.CreditCard)},
			DtStart:    dtStart,
			DtEnd:      dtEnd,
			Include:    true,
		})
	case inst.Checking != "":
		req.Bank = append(req.Bank, &ofxgo.StatementRequest{
			TrnUID: *uid,
			BankAcctFrom: ofxgo.BankAcct{
				BankID:   ofxgo.String(inst.BankID),
				AcctID:   ofxgo.String(inst.Checking),
				AcctType: ofxgo.AcctTypeChecking,
			},
			DtStart: dtStart,
			DtEnd:   dtEnd,
			Include: true,
		})
	default:
		return nil, errors.New("institution has neither credit_card nor checking account")
	}
	return req, nil
}

// OFX servers expect date-only bounds.
func startOfDayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
