package models_test

import (
	"github.com/budgetflow/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUpsertCodeIdempotent() {
	created, err := models.UpsertCode[models.Project](models.DB, models.CodeNode{Code: "P1", Parent: ptr("P0"), Alias: ptr("First")})
	suite.Require().Nil(err)
	suite.Assert().True(created)

	created, err = models.UpsertCode[models.Project](models.DB, models.CodeNode{Code: " P1 ", Parent: ptr("P9"), Alias: ptr("Second")})
	suite.Require().Nil(err)
	suite.Assert().False(created)

	var projects []models.Project
	suite.Require().Nil(models.DB.Where("code = ?", "P1").Find(&projects).Error)
	suite.Require().Len(projects, 1)
	suite.Assert().Equal("P9", *projects[0].Parent)
	suite.Assert().Equal("Second", projects[0].DisplayName())
}

func (suite *TestSuiteStandard) TestUpsertCodeClearsValues() {
	_, err := models.UpsertCode[models.Account](models.DB, models.CodeNode{Code: "A1", Parent: ptr("A0"), Alias: ptr("Alias")})
	suite.Require().Nil(err)

	_, err = models.UpsertCode[models.Account](models.DB, models.CodeNode{Code: "A1", Parent: ptr("  ")})
	suite.Require().Nil(err)

	account, ok, err := models.FindByCode[models.Account](models.DB, "A1")
	suite.Require().Nil(err)
	suite.Require().True(ok)
	suite.Assert().Nil(account.Parent)
	suite.Assert().Nil(account.Alias)
	suite.Assert().Equal("A1", account.DisplayName(), "display name falls back to the code")
}

func (suite *TestSuiteStandard) TestUpsertCodeEmpty() {
	_, err := models.UpsertCode[models.Entity](models.DB, models.CodeNode{Code: " "})
	suite.Assert().ErrorIs(err, models.ErrCodeEmpty)
}

func (suite *TestSuiteStandard) TestCodeUnique() {
	suite.Require().Nil(models.DB.Create(&models.Entity{CodeNode: models.CodeNode{Code: "E1"}}).Error)

	err := models.DB.Create(&models.Entity{CodeNode: models.CodeNode{Code: "E1"}}).Error
	suite.Assert().ErrorIs(err, models.ErrEntityCodeNotUnique)
}

func (suite *TestSuiteStandard) TestCodeSpacesAreSeparate() {
	suite.Require().Nil(models.DB.Create(&models.Entity{CodeNode: models.CodeNode{Code: "100"}}).Error)
	suite.Require().Nil(models.DB.Create(&models.Project{CodeNode: models.CodeNode{Code: "100"}}).Error)
	suite.Require().Nil(models.DB.Create(&models.Account{CodeNode: models.CodeNode{Code: "100"}}).Error)
}

func (suite *TestSuiteStandard) TestLoadTree() {
	for _, n := range []models.CodeNode{
		{Code: "R"},
		{Code: "C1", Parent: ptr("R")},
		{Code: "C2", Parent: ptr("R")},
		{Code: "G1", Parent: ptr("C1")},
	} {
		_, err := models.UpsertCode[models.Project](models.DB, n)
		suite.Require().Nil(err)
	}

	tree, err := models.LoadTree[models.Project](models.DB)
	suite.Require().Nil(err)
	suite.Assert().Equal(4, tree.Len())
	suite.Assert().ElementsMatch([]string{"C1", "C2", "G1"}, tree.Descendants("R"))
	suite.Assert().ElementsMatch([]string{"C2", "G1"}, tree.LeafDescendants("R"))

	accounts, err := models.LoadTree[models.Account](models.DB)
	suite.Require().Nil(err)
	suite.Assert().Equal(0, accounts.Len())
}
