package internal

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"

	"github.com/lahirunirmalx/cOrange/internal/punch"
	"github.com/lahirunirmalx/cOrange/internal/util"
)

const (
	supportedFileFormat = ".xlsx"
	maxUploadSize       = 32 << 20
)

type punchInResponse struct {
	PunchedInAt string `json:"punched_in_at"`
}

type punchOutResponse struct {
	CycleID string `json:"cycle_id"`
	Elapsed string `json:"elapsed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func PunchInHandler(punchHandler PunchAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		at, err := punchHandler.PunchIn(req.Context())
		if err != nil {
			writeError(res, req, err)
			return
		}
		util.WithBodyAndStatus(punchInResponse{PunchedInAt: at.Format("2006-01-02 15:04:05")}, http.StatusOK, res)
	}
}

// PunchOutHandler answers 202 once the cycle is dispatched; the outcome is
// visible later through the status endpoint.
func PunchOutHandler(punchHandler PunchAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		cycle, err := punchHandler.PunchOut(req.Context())
		if err != nil {
			writeError(res, req, err)
			return
		}
		util.WithBodyAndStatus(punchOutResponse{
			CycleID: cycle.ID,
			Elapsed: punch.FormatElapsed(cycle.Elapsed()),
		}, http.StatusAccepted, res)
	}
}

func StatusHandler(punchHandler PunchAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		util.WithBodyAndStatus(punchHandler.Status(), http.StatusOK, res)
	}
}

//ImportHandler backfills attendance from an uploaded xlsx timesheet
func ImportHandler(punchHandler PunchAPIHandler, uploadDir string) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		if err := req.ParseMultipartForm(maxUploadSize); err != nil {
			contextLogger.WithError(err).Error("Failed to parse request body")
			util.WithBodyAndStatus(nil, http.StatusBadRequest, res)
			return
		}

		_, fileHeader, err := req.FormFile("file")
		if err != nil {
			contextLogger.WithError(err).Error("Failed to get the file from request")
			util.WithBodyAndStatus(nil, http.StatusBadRequest, res)
			return
		}

		if filepath.Ext(fileHeader.Filename) != supportedFileFormat {
			contextLogger.Error("Unable to open the uploaded file. Please confirm the file is in .xlsx format.")
			util.WithBodyAndStatus(errorResponse{Error: "file must be .xlsx"}, http.StatusBadRequest, res)
			return
		}

		path, err := saveUpload(req, uploadDir)
		if err != nil {
			util.WithBodyAndStatus(errorResponse{Error: "invalid xlsx file"}, http.StatusBadRequest, res)
			return
		}
		defer os.Remove(path)

		errResult := punchHandler.Import(ctx, path)
		if len(errResult) > 0 {
			contextLogger.Error("There were some errors during importing the timesheet")
			util.WithBodyAndStatus(errResult, http.StatusUnprocessableEntity, res)
			return
		}
		util.WithBodyAndStatus([]string{}, http.StatusOK, res)
	}
}

// saveUpload checks the upload parses as xlsx and writes it under dir.
func saveUpload(req *http.Request, dir string) (string, error) {
	contextLogger := log.WithContext(req.Context())

	file, _, err := req.FormFile("file")
	if err != nil {
		contextLogger.WithError(err).Error("Failed to get the file from request")
		return "", err
	}
	defer file.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, file); err != nil {
		contextLogger.WithError(err).Error("Failed to copy file contents to buffer")
		return "", err
	}

	excelFile, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		contextLogger.WithError(err).Error("Failed to convert bytes to excel file")
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "timesheet-*"+supportedFileFormat)
	if err != nil {
		contextLogger.WithError(err).Error("Failed to create upload file")
		return "", err
	}
	path := tmp.Name()
	tmp.Close()

	if err := excelFile.Save(path); err != nil {
		contextLogger.WithError(err).Error("Failed to save excel file to disk")
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeError(res http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, punch.ErrAlreadyPunchedIn),
		errors.Is(err, punch.ErrNotPunchedIn),
		errors.Is(err, ErrAlreadySubmitting):
		status = http.StatusConflict
	case errors.Is(err, punch.ErrStopBeforeStart):
		status = http.StatusBadRequest
	}
	log.WithContext(req.Context()).WithError(err).Warn("punch request rejected")
	util.WithBodyAndStatus(errorResponse{Error: err.Error()}, status, res)
}
