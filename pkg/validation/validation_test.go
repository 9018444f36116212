package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type datasetInput struct {
	Path string `validate:"required,dataset_ext"`
}

type workbookInput struct {
	Path string `validate:"required,workbook_ext"`
}

func TestValidateStruct_DatasetExtension(t *testing.T) {
	require.NoError(t, ValidateStruct(datasetInput{Path: "base.csv"}))
	require.NoError(t, ValidateStruct(datasetInput{Path: "base.PARQUET"}))

	err := ValidateStruct(datasetInput{Path: "base.xlsx"})
	require.Error(t, err)
	require.Contains(t, err.Error(), ".csv or .parquet")
}

func TestValidateStruct_WorkbookExtension(t *testing.T) {
	require.NoError(t, ValidateStruct(workbookInput{Path: "census.xlsx"}))
	require.NoError(t, ValidateStruct(workbookInput{Path: "census.xlsm"}))

	err := ValidateStruct(workbookInput{Path: "census.csv"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Excel workbook")
}

func TestValidateStruct_RequiredNamesField(t *testing.T) {
	err := ValidateStruct(datasetInput{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "path is required")
}

func TestValidateStruct_RangeTag(t *testing.T) {
	type bounded struct {
		Workers int `validate:"gte=0"`
	}
	require.NoError(t, ValidateStruct(bounded{Workers: 0}))

	err := ValidateStruct(bounded{Workers: -2})
	require.Error(t, err)
	require.Contains(t, err.Error(), "gte=0")
}
