package models_test

import (
	"github.com/budgetflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestFindEnvelope() {
	_, ok, err := models.FindEnvelope(models.DB, "9000000")
	suite.Require().Nil(err)
	suite.Assert().False(ok, "no envelope is not an error")

	_, created, err := models.UpsertEnvelope(models.DB, "9000000", decimal.NewFromInt(20000000))
	suite.Require().Nil(err)
	suite.Assert().True(created)

	e, ok, err := models.FindEnvelope(models.DB, "9000000")
	suite.Require().Nil(err)
	suite.Require().True(ok)
	suite.Assert().True(e.Amount.Equal(decimal.NewFromInt(20000000)))
}

func (suite *TestSuiteStandard) TestUpsertEnvelopeUpdates() {
	first, _, err := models.UpsertEnvelope(models.DB, "P", decimal.NewFromInt(1))
	suite.Require().Nil(err)

	second, created, err := models.UpsertEnvelope(models.DB, "P", decimal.NewFromInt(2))
	suite.Require().Nil(err)
	suite.Assert().False(created)
	suite.Assert().Equal(first.ID, second.ID)

	envelopes, err := models.Envelopes(models.DB)
	suite.Require().Nil(err)
	suite.Assert().Len(envelopes, 1)
	suite.Assert().True(envelopes["P"].Equal(decimal.NewFromInt(2)))
}

func (suite *TestSuiteStandard) TestEnvelopeProjectUnique() {
	suite.Require().Nil(models.DB.Create(&models.Envelope{ProjectCode: "P", Amount: decimal.NewFromInt(1)}).Error)
	err := models.DB.Create(&models.Envelope{ProjectCode: "P", Amount: decimal.NewFromInt(2)}).Error
	suite.Assert().ErrorIs(err, models.ErrEnvelopeProjectNotUnique)
}

func (suite *TestSuiteStandard) TestAccountMappingGetOrCreate() {
	_, created, err := models.GetOrCreateAccountMapping(models.DB, "OLD1", "TC11100T")
	suite.Require().Nil(err)
	suite.Assert().True(created)

	_, created, err = models.GetOrCreateAccountMapping(models.DB, " OLD1", "TC11100T ")
	suite.Require().Nil(err)
	suite.Assert().False(created)

	_, _, err = models.GetOrCreateAccountMapping(models.DB, "X", "X")
	suite.Assert().ErrorIs(err, models.ErrAccountMappingSelf)
}

func (suite *TestSuiteStandard) TestBudgetDataUpsert() {
	created, err := models.UpsertBudgetData(models.DB, models.BudgetData{ProjectCode: "P", AccountCode: "A", PriorBudget: decimal.NewFromInt(5)})
	suite.Require().Nil(err)
	suite.Assert().True(created)

	created, err = models.UpsertBudgetData(models.DB, models.BudgetData{ProjectCode: "P", AccountCode: "A", PriorBudget: decimal.NewFromInt(7)})
	suite.Require().Nil(err)
	suite.Assert().False(created)

	var rows []models.BudgetData
	suite.Require().Nil(models.DB.Find(&rows).Error)
	suite.Require().Len(rows, 1)
	suite.Assert().True(rows[0].PriorBudget.Equal(decimal.NewFromInt(7)))
}

func (suite *TestSuiteStandard) TestBalanceReportReplace() {
	rows := []models.BalanceReport{
		{Segment1: "10001", Segment2: "2205403", Segment3: "P1", FundsAvailable: decimal.NewFromInt(100)},
		{Segment1: "10001", Segment2: "2205403", Segment3: "P2", FundsAvailable: decimal.NewFromInt(50)},
	}
	suite.Require().Nil(models.ReplaceBalanceReport(models.DB, rows))

	funds, ok, err := models.FundsAvailable(models.DB, "10001", "2205403", "P1")
	suite.Require().Nil(err)
	suite.Assert().True(ok)
	suite.Assert().True(funds.Equal(decimal.NewFromInt(100)))

	suite.Require().Nil(models.ReplaceBalanceReport(models.DB, rows[1:]))
	_, ok, err = models.FundsAvailable(models.DB, "10001", "2205403", "P1")
	suite.Require().Nil(err)
	suite.Assert().False(ok)
}
