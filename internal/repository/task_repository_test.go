package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/testutil"
	"github.com/yukikurage/kanban-task-api/internal/utils"
	"gorm.io/gorm"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TaskRepository
	ctx  context.Context
	user *models.User
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.repo = NewTaskRepository(suite.db)
	suite.ctx = context.Background()
	suite.user = testutil.CreateUser(suite.T(), suite.db, "alice")
}

func (suite *TaskRepositoryTestSuite) seed(title string, priority models.TaskPriority) *models.Task {
	return testutil.CreateTask(suite.T(), suite.db, &models.Task{
		Title:    title,
		Priority: priority,
		UserID:   suite.user.ID,
	})
}

func (suite *TaskRepositoryTestSuite) TestList_OrdersByPriorityRankThenID() {
	low := suite.seed("low", models.TaskPriorityLow)
	unknown := suite.seed("unknown", "someday")
	high1 := suite.seed("high 1", models.TaskPriorityHigh)
	medium := suite.seed("medium", models.TaskPriorityMedium)
	high2 := suite.seed("high 2", models.TaskPriorityHigh)

	tasks, total, err := suite.repo.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)

	var ids []uint64
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	suite.Equal([]uint64{high1.ID, high2.ID, medium.ID, low.ID, unknown.ID}, ids)
}

func (suite *TaskRepositoryTestSuite) TestList_Filters() {
	other := testutil.CreateUser(suite.T(), suite.db, "bob")
	category := testutil.CreateCategory(suite.T(), suite.db, "work")

	mine := suite.seed("mine", models.TaskPriorityHigh)
	tagged := testutil.CreateTask(suite.T(), suite.db, &models.Task{
		Title:      "tagged",
		Priority:   models.TaskPriorityLow,
		UserID:     suite.user.ID,
		CategoryID: &category.ID,
		Status:     models.TaskStatusDone,
	})
	testutil.CreateTask(suite.T(), suite.db, &models.Task{Title: "theirs", UserID: other.ID})

	tasks, _, err := suite.repo.List(suite.ctx, TaskFilter{UserID: &suite.user.ID})
	suite.Require().NoError(err)
	suite.Len(tasks, 2)

	tasks, _, err = suite.repo.List(suite.ctx, TaskFilter{CategoryID: &category.ID})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(tagged.ID, tasks[0].ID)

	high := models.TaskPriorityHigh
	tasks, _, err = suite.repo.List(suite.ctx, TaskFilter{Priority: &high})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(mine.ID, tasks[0].ID)

	tasks, _, err = suite.repo.List(suite.ctx, TaskFilter{Statuses: []models.TaskStatus{models.TaskStatusDone}})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(tagged.ID, tasks[0].ID)
}

func (suite *TaskRepositoryTestSuite) TestList_Paginated() {
	for i := 0; i < 5; i++ {
		suite.seed("task", models.TaskPriorityMedium)
	}

	params := utils.NewPaginationParams("2", "2")
	tasks, total, err := suite.repo.List(suite.ctx, TaskFilter{Pagination: &params})
	suite.Require().NoError(err)
	suite.Equal(int64(5), total)
	suite.Require().Len(tasks, 2)
	suite.Equal(uint64(3), tasks[0].ID)
	suite.Equal(uint64(4), tasks[1].ID)
}

func (suite *TaskRepositoryTestSuite) TestUpdateStatus() {
	task := suite.seed("move me", models.TaskPriorityMedium)

	suite.Require().NoError(suite.repo.UpdateStatus(suite.ctx, task.ID, models.TaskStatusDone))

	reloaded, err := suite.repo.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, reloaded.Status)
}

func (suite *TaskRepositoryTestSuite) TestDelete() {
	task := suite.seed("delete me", models.TaskPriorityMedium)

	suite.Require().NoError(suite.repo.Delete(suite.ctx, task.ID))

	_, err := suite.repo.FindByID(suite.ctx, task.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.repo.Delete(suite.ctx, task.ID), gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestCountByUser() {
	suite.seed("one", models.TaskPriorityMedium)
	suite.seed("two", models.TaskPriorityMedium)

	count, err := suite.repo.CountByUser(suite.ctx, suite.user.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func TestCategoryRepository_DeleteDecouplesTasks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "alice")
	category := testutil.CreateCategory(t, db, "home")
	t1 := testutil.CreateTask(t, db, &models.Task{Title: "t1", UserID: user.ID, CategoryID: &category.ID})
	t2 := testutil.CreateTask(t, db, &models.Task{Title: "t2", UserID: user.ID, CategoryID: &category.ID})

	require.NoError(t, repo.Delete(ctx, category.ID))

	for _, id := range []uint64{t1.ID, t2.ID} {
		var task models.Task
		require.NoError(t, db.First(&task, id).Error)
		assert.Nil(t, task.CategoryID)
	}

	_, err := repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, category.ID), gorm.ErrRecordNotFound)
}

func TestUserRepository_FindByEmailIgnoresCase(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	user := testutil.CreateUser(t, db, "bob")

	found, err := repo.FindByEmail(context.Background(), "  BOB@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
