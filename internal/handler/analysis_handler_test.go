package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insidemotion-go/internal/analysis"
	"insidemotion-go/internal/client"
	"insidemotion-go/internal/model"
	"insidemotion-go/internal/service"
	"insidemotion-go/pkg/models"
)

// memoryRepo хранит анализы в памяти вместо PostgreSQL
type memoryRepo struct {
	records map[string]*model.Analysis
	order   []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*model.Analysis)}
}

func (r *memoryRepo) Create(analysis *model.Analysis) error {
	r.records[analysis.ID] = analysis
	r.order = append(r.order, analysis.ID)
	return nil
}

func (r *memoryRepo) GetByID(id string) (*model.Analysis, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("analysis with id %s not found", id)
	}
	return record, nil
}

func (r *memoryRepo) List(page, pageSize int) ([]*model.Analysis, int64, error) {
	out := make([]*model.Analysis, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepo) Delete(id string) error {
	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("analysis with id %s not found", id)
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeExtractor возвращает заранее подготовленное извлечение позы
type fakeExtractor struct {
	extraction *models.PoseExtraction
	err        error
}

func (f *fakeExtractor) ExtractPose(ctx context.Context, videoData []byte, filename string) (*models.PoseExtraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.extraction, nil
}

func (f *fakeExtractor) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	return &models.HealthResponse{Status: "healthy", ModelLoaded: true, Version: "1.0.0"}, nil
}

func newTestRouter(t *testing.T, extractor client.PoseExtractor) (*gin.Engine, *memoryRepo) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := newMemoryRepo()
	analysisService := service.NewAnalysisService(repo, logger, t.TempDir())
	engine := analysis.NewEngine(analysis.DefaultOptions(), logger)
	analyzerService := service.NewAnalyzerService(extractor, engine, analysisService, logger)

	router := gin.New()
	NewAnalysisHandler(analyzerService, analysisService, logger).RegisterRoutes(router)
	return router, repo
}

func landmark(name string, x, y, z float64) models.Landmark {
	return models.Landmark{Name: name, X: x, Y: y, Z: z, Visibility: 1.0}
}

func ankleAt(name string, kneeX, kneeY, angleDeg float64) models.Landmark {
	rad := angleDeg * math.Pi / 180
	return landmark(name, kneeX+0.25*math.Sin(rad), kneeY-0.25*math.Cos(rad), 0)
}

// squatFrame строит кадр приседания с заданными углами коленей и позициями бедер
func squatFrame(index int, timestamp, leftAngleDeg, rightAngleDeg, leftHipX, rightHipX float64) models.Frame {
	return models.Frame{
		Index: index,
		Time:  timestamp,
		Keypoints: []models.Landmark{
			landmark(models.JointNose, (leftHipX+rightHipX)/2, 0.10, 0),
			landmark(models.JointLeftShoulder, leftHipX, 0.25, 0),
			landmark(models.JointRightShoulder, rightHipX, 0.25, 0),
			landmark(models.JointLeftHip, leftHipX, 0.50, 0),
			landmark(models.JointRightHip, rightHipX, 0.50, 0),
			landmark(models.JointLeftKnee, leftHipX, 0.75, 0),
			landmark(models.JointRightKnee, rightHipX, 0.75, 0),
			ankleAt(models.JointLeftAnkle, leftHipX, 0.75, leftAngleDeg),
			ankleAt(models.JointRightAnkle, rightHipX, 0.75, rightAngleDeg),
		},
	}
}

// asymmetricSquat строит присед с выраженной компенсацией на правую сторону
func asymmetricSquat() []models.Frame {
	frames := make([]models.Frame, 0, 10)
	for i := 0; i < 5; i++ {
		frames = append(frames, squatFrame(i, float64(i)/30, 150, 150, 0.48, 0.52))
	}
	for i := 5; i < 10; i++ {
		frames = append(frames, squatFrame(i, float64(i)/30, 150, 100, 0.48, 0.52))
	}
	return frames
}

func squatExtraction(frames []models.Frame) *models.PoseExtraction {
	duration := 0.0
	if len(frames) > 0 {
		duration = frames[len(frames)-1].Time
	}
	return &models.PoseExtraction{
		Status:        "success",
		FPS:           30,
		TotalFrames:   len(frames),
		Duration:      duration,
		KeypointsData: frames,
	}
}

// analyzeRequest собирает multipart запрос с видео файлом
func analyzeRequest(t *testing.T, videoName string, videoBody []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("video", videoName)
	require.NoError(t, err)
	_, err = part.Write(videoBody)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnalyzeVideoEndpoint(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(asymmetricSquat())}
	router, repo := newTestRouter(t, extractor)

	videoBody := []byte("fake video bytes")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyzeRequest(t, "squat.mp4", videoBody))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp service.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Analysis)

	assert.NotEmpty(t, resp.Analysis.ID)
	assert.Equal(t, "squat.mp4", resp.Analysis.VideoFilename)
	assert.Equal(t, 10, resp.Analysis.TotalFrames)
	assert.Equal(t, 10, resp.Analysis.UsableFrames)
	assert.Equal(t, 0, resp.Analysis.SkippedFrames)
	assert.Len(t, resp.Analysis.Timeline, 10)

	report := resp.Analysis.Report
	assert.Equal(t, analysis.SeverityProblem, report.Severity)
	assert.Equal(t, analysis.SideRight, report.CompensatingSide)
	require.Len(t, report.KeyMoments, 2)
	assert.Equal(t, analysis.LabelNeutral, report.KeyMoments[0].Label)
	assert.Equal(t, analysis.LabelPeakCompensation, report.KeyMoments[1].Label)

	// Видео и график сохранены на диск
	record, err := repo.GetByID(resp.Analysis.ID)
	require.NoError(t, err)
	saved, err := os.ReadFile(record.VideoPath)
	require.NoError(t, err)
	assert.Equal(t, videoBody, saved)
	_, err = os.Stat(record.ChartPath)
	require.NoError(t, err)
}

func TestAnalyzeVideoPoseServiceDown(t *testing.T) {
	extractor := &fakeExtractor{err: &client.APIError{Message: "ошибка отправки HTTP запроса", Err: fmt.Errorf("connection refused")}}
	router, repo := newTestRouter(t, extractor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyzeRequest(t, "squat.mp4", []byte("fake video bytes")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Сервис извлечения позы недоступен", resp["error"])
	assert.Empty(t, repo.records)
}

func TestAnalyzeVideoNoUsableFrames(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(nil)}
	router, repo := newTestRouter(t, extractor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyzeRequest(t, "empty.mp4", []byte("fake video bytes")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "В видео не найдено пригодных кадров с позой", resp["error"])
	assert.Empty(t, repo.records)
}

func TestAnalyzeVideoRequiresFile(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(asymmetricSquat())}
	router, _ := newTestRouter(t, extractor)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("comment", "no video here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisLifecycle(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(asymmetricSquat())}
	router, repo := newTestRouter(t, extractor)

	// Создаем анализ
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, analyzeRequest(t, "squat.mp4", []byte("fake video bytes")))
	require.Equal(t, http.StatusOK, rec.Code)

	var created service.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Analysis)
	analysisID := created.Analysis.ID

	// Получаем анализ по ID
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched service.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, analysisID, fetched.ID)
	assert.Equal(t, created.Analysis.Report.Severity, fetched.Report.Severity)
	assert.Equal(t, created.Analysis.Report.CompensatingSide, fetched.Report.CompensatingSide)
	// Динамика метрик не хранится в БД и не возвращается при чтении
	assert.Empty(t, fetched.Timeline)

	// Список анализов
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list service.ListAnalysesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Analyses, 1)
	assert.Equal(t, analysisID, list.Analyses[0].ID)

	// Скачиваем исходное видео
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID+"/video", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake video bytes", rec.Body.String())

	// Скачиваем график
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID+"/chart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hip_shift")

	record, err := repo.GetByID(analysisID)
	require.NoError(t, err)
	videoPath := record.VideoPath

	// Удаляем анализ
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/analyses/"+analysisID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Запись и файлы удалены
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysisID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err = os.Stat(videoPath)
	assert.True(t, os.IsNotExist(err))
}

func TestGetAnalysisNotFound(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(asymmetricSquat())}
	router, _ := newTestRouter(t, extractor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/unknown-id", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckHealthReportsDatabaseDown(t *testing.T) {
	extractor := &fakeExtractor{extraction: squatExtraction(asymmetricSquat())}
	router, _ := newTestRouter(t, extractor)

	// Глобальное подключение к БД в тестах не инициализировано,
	// поэтому сервис обязан отчитаться как unhealthy
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "unhealthy", resp["database"])
}
