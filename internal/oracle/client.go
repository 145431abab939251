// Package oracle talks to the ERP: it uploads FBDI journals and downloads
// the period balance report through the SOAP services.
package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConfigured = errors.New("the ERP connection is not configured")
	ErrNoRequestID   = errors.New("the ERP response did not contain a request id")
	ErrNoReport      = errors.New("the ERP response did not contain a report")
)

const (
	nsSoap11 = "http://schemas.xmlsoap.org/soap/envelope/"
	nsSoap12 = "http://www.w3.org/2003/05/soap-envelope"
	nsERP    = "http://xmlns.oracle.com/apps/financials/commonModules/shared/model/erpIntegrationService/"
	nsTypes  = "http://xmlns.oracle.com/apps/financials/commonModules/shared/model/erpIntegrationService/types/"
	nsReport = "http://xmlns.oracle.com/oxp/service/PublicReportService"

	journalImportJob = "/oracle/apps/ess/financials/generalLedger/programs/common,JournalImportLauncher"
)

// Config holds the connection and ledger settings.
type Config struct {
	URL      string // base URL of the ERP, e.g. https://erp.example.com
	User     string
	Password string
	Timeout  time.Duration

	LedgerID          string
	DataAccessSetID   string
	JournalSource     string
	JournalCategory   string
	Currency          string
	EncumbranceTypeID string

	// DefaultSegments fills the segments that are not derived from the
	// transfer line, keyed by segment number.
	DefaultSegments map[int]string

	BalanceReportPath string
}

// Client is the ERP SOAP client.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a client. Without URL, all calls fail with
// ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.BalanceReportPath == "" {
		cfg.BalanceReportPath = "/API/period_balance_report.xdo"
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether the client has an ERP to talk to.
func (c *Client) Configured() bool {
	return c.cfg.URL != ""
}

// UploadJournal uploads the journal as zipped FBDI CSV and starts the
// journal import. It returns the ERP request id.
func (c *Client) UploadJournal(ctx context.Context, j Journal) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	content, err := j.zip(c.cfg)
	if err != nil {
		return "", err
	}

	body, err := c.importBulkDataEnvelope(j, content)
	if err != nil {
		return "", err
	}

	doc, err := c.post(ctx, "/fscmService/ErpIntegrationService", "text/xml; charset=utf-8", body)
	if err != nil {
		return "", err
	}

	result := doc.FindElement("//result")
	if result == nil || strings.TrimSpace(result.Text()) == "" {
		return "", ErrNoRequestID
	}

	id := strings.TrimSpace(result.Text())
	log.Info().Str("journal", j.JournalName).Str("request-id", id).Msg("journal uploaded")
	return id, nil
}

// FetchBalanceReport runs the balance report for the control budget and
// period and returns the spreadsheet it produced.
func (c *Client) FetchBalanceReport(ctx context.Context, controlBudget, period string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := c.runReportEnvelope(controlBudget, period)
	if err != nil {
		return nil, err
	}

	doc, err := c.post(ctx, "/xmlpserver/services/ExternalReportWSSService", "application/soap+xml;charset=UTF-8", body)
	if err != nil {
		return nil, err
	}

	el := doc.FindElement("//reportBytes")
	if el == nil || strings.TrimSpace(el.Text()) == "" {
		return nil, ErrNoReport
	}

	return decodeBase64(el.Text())
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (*etree.Document, error) {
	url := strings.TrimRight(c.cfg.URL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.User, c.cfg.Password)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("SOAPAction", "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ERP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read ERP response: %w", err)
	}

	doc := etree.NewDocument()
	parseErr := doc.ReadFromBytes(data)

	if parseErr == nil {
		if fault := doc.FindElement("//faultstring"); fault != nil {
			return nil, fmt.Errorf("ERP returned a fault: %s", strings.TrimSpace(fault.Text()))
		}
		if reason := doc.FindElement("//Reason/Text"); reason != nil {
			return nil, fmt.Errorf("ERP returned a fault: %s", strings.TrimSpace(reason.Text()))
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("ERP returned HTTP %d", resp.StatusCode)
	}

	if parseErr != nil {
		return nil, fmt.Errorf("could not parse ERP response: %w", parseErr)
	}

	return doc, nil
}

func (c *Client) importBulkDataEnvelope(j Journal, content string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", nsSoap11)
	env.CreateAttr("xmlns:typ", nsTypes)
	env.CreateAttr("xmlns:erp", nsERP)
	env.CreateElement("soapenv:Header")

	op := env.CreateElement("soapenv:Body").CreateElement("typ:importBulkDataAsync")

	document := op.CreateElement("typ:document")
	document.CreateElement("erp:Content").SetText(content)
	document.CreateElement("erp:FileName").SetText(j.fileName())
	document.CreateElement("erp:ContentType").SetText("zip")

	job := op.CreateElement("typ:jobDetails")
	job.CreateElement("erp:JobName").SetText(journalImportJob)
	job.CreateElement("erp:ParameterList").SetText(strings.Join([]string{
		c.cfg.DataAccessSetID,
		c.cfg.JournalSource,
		c.cfg.LedgerID,
		j.GroupID,
		"N", "N", "N",
	}, ","))

	op.CreateElement("typ:notificationCode").SetText("10")

	return doc.WriteToBytes()
}

func (c *Client) runReportEnvelope(controlBudget, period string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soap12:Envelope")
	env.CreateAttr("xmlns:soap12", nsSoap12)
	env.CreateAttr("xmlns:pub", nsReport)
	env.CreateElement("soap12:Header")

	req := env.CreateElement("soap12:Body").CreateElement("pub:runReport").CreateElement("pub:reportRequest")
	req.CreateElement("pub:reportAbsolutePath").SetText(c.cfg.BalanceReportPath)
	req.CreateElement("pub:attributeFormat").SetText("xlsx")
	req.CreateElement("pub:sizeOfDataChunkDownload").SetText("-1")

	params := req.CreateElement("pub:parameterNameValues")
	for _, p := range []struct{ name, value string }{
		{"P_CONTROL_BUDGET_NAME", controlBudget},
		{"P_PERIOD_NAME", period},
	} {
		item := params.CreateElement("pub:item")
		item.CreateElement("pub:name").SetText(p.name)
		item.CreateElement("pub:values").CreateElement("pub:item").SetText(p.value)
	}

	return doc.WriteToBytes()
}
