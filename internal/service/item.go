package service

import (
	"GoToDo/internal/model"
	"GoToDo/internal/repo"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultMaxDepth задаёт предел глубины дерева, если не задан в конфиге.
const DefaultMaxDepth = 64

// RecentLimit ограничивает выборку «недавние».
const RecentLimit = 10

// ItemService — движок дерева элементов. Каждая операция получает id принципала явно.
type ItemService struct {
	items       repo.ItemRepository
	lists       repo.ListRepository
	attachments repo.AttachmentRepository
	files       AttachmentStore
	logger      *zap.SugaredLogger
	maxDepth    int
}

func NewItemService(
	items repo.ItemRepository,
	lists repo.ListRepository,
	attachments repo.AttachmentRepository,
	files AttachmentStore,
	logger *zap.SugaredLogger,
	maxDepth int,
) *ItemService {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &ItemService{
		items:       items,
		lists:       lists,
		attachments: attachments,
		files:       files,
		logger:      logger,
		maxDepth:    maxDepth,
	}
}

// CreateItemInput описывает новый элемент.
type CreateItemInput struct {
	ListID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	ParentID    *int64
}

// UpdateItemInput — частичное обновление; nil означает «не менять».
type UpdateItemInput struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
}

// ReorderEntry задаёт новую позицию и родителя одного элемента.
type ReorderEntry struct {
	ID       int64
	Position int
	ParentID *int64
}

// DayGroup собирает элементы с одной календарной датой срока (UTC).
type DayGroup struct {
	Date  string       `json:"date"`
	Items []model.Item `json:"items"`
}

func (s *ItemService) CreateItem(ctx context.Context, userID int64, in CreateItemInput) (*model.Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationErr("title", "is required")
	}
	if _, err := s.lists.GetOwned(ctx, userID, in.ListID, false); err != nil {
		return nil, storageErr(err)
	}

	it := &model.Item{
		ListID:      in.ListID,
		ParentID:    in.ParentID,
		Title:       title,
		Description: in.Description,
		DueDate:     utcTime(in.DueDate),
	}
	err := s.items.WithinTx(ctx, func(tx repo.ItemRepository) error {
		if in.ParentID != nil {
			parent, err := tx.GetOwned(ctx, userID, *in.ParentID, true)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: parent %d not found", ErrInvalidParent, *in.ParentID)
			}
			if err != nil {
				return err
			}
			if parent.ListID != in.ListID {
				return fmt.Errorf("%w: parent %d belongs to another list", ErrInvalidParent, parent.ID)
			}
			nodes, err := tx.Nodes(ctx, in.ListID)
			if err != nil {
				return err
			}
			d, err := newForest(nodes).depth(parent.ID, s.maxDepth)
			if err != nil {
				return err
			}
			if d+1 > s.maxDepth {
				return fmt.Errorf("%w: tree deeper than %d levels", ErrConflict, s.maxDepth)
			}
		}
		pos, err := tx.NextPosition(ctx, in.ListID, in.ParentID)
		if err != nil {
			return err
		}
		it.Position = pos
		return tx.Create(ctx, it)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	it.Attachments = []model.Attachment{}
	s.logger.Infow("Item created", "user_id", userID, "item_id", it.ID, "list_id", it.ListID)
	return it, nil
}

// GetItem возвращает элемент с вложениями и прямыми детьми.
func (s *ItemService) GetItem(ctx context.Context, userID, id int64, includeDeleted bool) (*model.Item, error) {
	it, err := s.items.GetOwned(ctx, userID, id, includeDeleted)
	if err != nil {
		return nil, storageErr(err)
	}
	children, err := s.items.Children(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	it.Children = make([]model.Item, 0, len(children))
	for _, c := range children {
		if c.IsDeleted && !includeDeleted {
			continue
		}
		it.Children = append(it.Children, c)
	}
	return it, nil
}

// ListItems возвращает элементы списка в порядке соседей. Удалённый список считается отсутствующим,
// если includeDeleted не задан.
func (s *ItemService) ListItems(ctx context.Context, userID, listID int64, includeDeleted bool) ([]model.Item, error) {
	if _, err := s.lists.GetOwned(ctx, userID, listID, includeDeleted); err != nil {
		return nil, storageErr(err)
	}
	out, err := s.items.ListByList(ctx, listID, includeDeleted)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, userID, id int64, in UpdateItemInput) (*model.Item, error) {
	if _, err := s.items.GetOwned(ctx, userID, id, true); err != nil {
		return nil, storageErr(err)
	}
	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validationErr("title", "must not be empty")
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	switch {
	case in.ClearDueDate:
		updates["due_date"] = nil
	case in.DueDate != nil:
		updates["due_date"] = in.DueDate.UTC()
	}
	if len(updates) > 0 {
		if err := s.items.Update(ctx, id, updates); err != nil {
			return nil, storageErr(err)
		}
	}
	it, err := s.items.GetOwned(ctx, userID, id, true)
	if err != nil {
		return nil, storageErr(err)
	}
	return it, nil
}

// CompleteItem выставляет флаг выполнения. Отметка «выполнено» распространяется на всех
// потомков, снятие отметки касается только самого элемента.
func (s *ItemService) CompleteItem(ctx context.Context, userID, id int64, completed bool) (*model.Item, error) {
	var (
		out     *model.Item
		touched int
	)
	err := s.items.WithinTx(ctx, func(tx repo.ItemRepository) error {
		it, err := tx.GetOwned(ctx, userID, id, true)
		if err != nil {
			return err
		}
		ids := []int64{it.ID}
		if completed {
			desc, err := s.subtree(ctx, tx, it)
			if err != nil {
				return err
			}
			ids = append(ids, desc...)
		}
		if err := tx.SetCompleted(ctx, ids, completed); err != nil {
			return err
		}
		touched = len(ids)
		out, err = tx.GetOwned(ctx, userID, id, true)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	s.logger.Infow("Item completion changed", "user_id", userID, "item_id", id, "completed", completed, "affected", touched)
	return out, nil
}

// SoftDelete помечает элемент и всё его поддерево удалёнными. Повторный вызов допустим.
func (s *ItemService) SoftDelete(ctx context.Context, userID, id int64) error {
	var touched int
	err := s.items.WithinTx(ctx, func(tx repo.ItemRepository) error {
		it, err := tx.GetOwned(ctx, userID, id, true)
		if err != nil {
			return err
		}
		desc, err := s.subtree(ctx, tx, it)
		if err != nil {
			return err
		}
		ids := append([]int64{it.ID}, desc...)
		touched = len(ids)
		return tx.SetDeleted(ctx, ids, true)
	})
	if err != nil {
		return storageErr(err)
	}
	s.logger.Infow("Item soft deleted", "user_id", userID, "item_id", id, "affected", touched)
	return nil
}

// Restore снимает пометку удаления только с самого элемента, потомки остаются удалёнными.
func (s *ItemService) Restore(ctx context.Context, userID, id int64) (*model.Item, error) {
	if _, err := s.items.GetOwned(ctx, userID, id, true); err != nil {
		return nil, storageErr(err)
	}
	if err := s.items.SetDeleted(ctx, []int64{id}, false); err != nil {
		return nil, storageErr(err)
	}
	it, err := s.items.GetOwned(ctx, userID, id, true)
	if err != nil {
		return nil, storageErr(err)
	}
	return it, nil
}

// PermanentDelete удаляет строку элемента и его вложения. Элемент с детьми не удаляется (ErrConflict).
func (s *ItemService) PermanentDelete(ctx context.Context, userID, id int64) error {
	var locators []string
	err := s.items.WithinTx(ctx, func(tx repo.ItemRepository) error {
		it, err := tx.GetOwned(ctx, userID, id, true)
		if err != nil {
			return err
		}
		n, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: item %d still has %d children", ErrConflict, id, n)
		}
		for _, a := range it.Attachments {
			locators = append(locators, a.Locator)
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return storageErr(err)
	}
	removeFiles(ctx, s.files, s.logger, locators)
	s.logger.Infow("Item permanently deleted", "user_id", userID, "item_id", id, "files", len(locators))
	return nil
}

// Reorder применяет пакет перестановок в одной транзакции. Отсутствующие, чужие и
// скрытые элементы пропускаются. Родитель должен быть из того же списка и не лежать
// в поддереве переносимого элемента, иначе весь пакет отклоняется с ErrInvalidParent.
// Возвращает число применённых записей.
func (s *ItemService) Reorder(ctx context.Context, userID int64, entries []ReorderEntry) (int, error) {
	applied := 0
	err := s.items.WithinTx(ctx, func(tx repo.ItemRepository) error {
		forests := map[int64]*forest{}
		for _, e := range entries {
			it, err := tx.GetOwned(ctx, userID, e.ID, false)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			f, ok := forests[it.ListID]
			if !ok {
				nodes, err := tx.Nodes(ctx, it.ListID)
				if err != nil {
					return err
				}
				f = newForest(nodes)
				forests[it.ListID] = f
			}

			var parent any
			if e.ParentID != nil {
				if err := s.checkParent(f, it.ID, *e.ParentID); err != nil {
					return err
				}
				parent = *e.ParentID
			}
			if err := tx.Update(ctx, it.ID, map[string]any{"position": e.Position, "parent_id": parent}); err != nil {
				return err
			}
			f.move(it.ID, e.ParentID)
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	s.logger.Infow("Items reordered", "user_id", userID, "requested", len(entries), "applied", applied)
	return applied, nil
}

// checkParent проверяет перенос id под parentID в текущем состоянии дерева списка.
func (s *ItemService) checkParent(f *forest, id, parentID int64) error {
	if !f.has(parentID) {
		return fmt.Errorf("%w: parent %d is not in the same list", ErrInvalidParent, parentID)
	}
	if f.isAncestor(id, parentID) {
		return fmt.Errorf("%w: moving %d under %d creates a cycle", ErrInvalidParent, id, parentID)
	}
	d, err := f.depth(parentID, s.maxDepth)
	if err != nil {
		return err
	}
	_, height, err := f.descendants(id, s.maxDepth)
	if err != nil {
		return err
	}
	if d+1+height > s.maxDepth {
		return fmt.Errorf("%w: tree deeper than %d levels", ErrConflict, s.maxDepth)
	}
	return nil
}

// RecentItems возвращает последние созданные видимые элементы пользователя по всем спискам.
func (s *ItemService) RecentItems(ctx context.Context, userID int64, includeDeleted bool) ([]model.Item, error) {
	out, err := s.items.Recent(ctx, userID, RecentLimit, includeDeleted)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// GroupedByDay группирует элементы со сроком по дате (UTC). Группы идут по возрастанию
// даты, элементы внутри группы — по position, затем id.
func (s *ItemService) GroupedByDay(ctx context.Context, userID int64, includeDeleted bool) ([]DayGroup, error) {
	items, err := s.items.WithDueDate(ctx, userID, includeDeleted)
	if err != nil {
		return nil, storageErr(err)
	}
	byDay := map[string][]model.Item{}
	for _, it := range items {
		day := it.DueDate.UTC().Format(time.DateOnly)
		byDay[day] = append(byDay[day], it)
	}
	out := make([]DayGroup, 0, len(byDay))
	for day, group := range byDay {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Position != group[j].Position {
				return group[i].Position < group[j].Position
			}
			return group[i].ID < group[j].ID
		})
		out = append(out, DayGroup{Date: day, Items: group})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *ItemService) ListDeletedItems(ctx context.Context, userID int64) ([]model.Item, error) {
	out, err := s.items.ListDeleted(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *ItemService) AddAttachment(ctx context.Context, userID, itemID int64, filename string, r io.Reader) (*model.Attachment, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, validationErr("file", "is required")
	}
	if _, err := s.items.GetOwned(ctx, userID, itemID, true); err != nil {
		return nil, storageErr(err)
	}
	loc, err := s.files.Save(ctx, itemID, filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	a := &model.Attachment{ItemID: itemID, FileName: filename, Locator: loc}
	if err := s.attachments.Create(ctx, a); err != nil {
		removeFiles(ctx, s.files, s.logger, []string{loc})
		return nil, storageErr(err)
	}
	s.logger.Infow("Attachment added", "user_id", userID, "item_id", itemID, "attachment_id", a.ID)
	return a, nil
}

// OpenAttachment открывает содержимое вложения; вызывающий закрывает reader.
func (s *ItemService) OpenAttachment(ctx context.Context, userID, id int64) (*model.Attachment, io.ReadCloser, error) {
	a, err := s.attachments.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, storageErr(err)
	}
	rc, err := s.files.Open(ctx, a.Locator)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return a, rc, nil
}

func (s *ItemService) DeleteAttachment(ctx context.Context, userID, id int64) error {
	a, err := s.attachments.GetOwned(ctx, userID, id)
	if err != nil {
		return storageErr(err)
	}
	if err := s.attachments.Delete(ctx, a.ID); err != nil {
		return storageErr(err)
	}
	removeFiles(ctx, s.files, s.logger, []string{a.Locator})
	return nil
}

// utcTime приводит срок к UTC: хранилище и группировка по дням работают в UTC.
func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// subtree собирает id всех потомков элемента, включая удалённых.
func (s *ItemService) subtree(ctx context.Context, tx repo.ItemRepository, it *model.Item) ([]int64, error) {
	nodes, err := tx.Nodes(ctx, it.ListID)
	if err != nil {
		return nil, err
	}
	desc, _, err := newForest(nodes).descendants(it.ID, s.maxDepth)
	return desc, err
}
