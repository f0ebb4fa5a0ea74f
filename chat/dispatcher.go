package chat

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/hrygo/docshelf/chat/metrics"
	"github.com/hrygo/docshelf/internal/ref"
	"github.com/hrygo/docshelf/store"
)

// Dispatcher routes inbound events through the session state machine and
// the store, and produces the effects the transport should render. Store
// errors never reach the user verbatim: known kinds map to fixed messages,
// anything else becomes a generic failure notice.
type Dispatcher struct {
	store    *store.Store
	sessions *SessionManager
}

func NewDispatcher(st *store.Store, sessions *SessionManager) *Dispatcher {
	return &Dispatcher{
		store:    st,
		sessions: sessions,
	}
}

// Dispatch handles one event. Events of the same user are processed strictly
// in arrival order; different users proceed concurrently.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) []Effect {
	unlock := d.sessions.LockUser(event.Owner())
	defer unlock()

	metrics.EventsTotal.WithLabelValues(eventType(event)).Inc()

	switch e := event.(type) {
	case StartCommand:
		return d.handleStart(e)
	case DocumentUploaded:
		return d.handleDocument(ctx, e)
	case ButtonSelected:
		return d.handleButton(ctx, e)
	case TextEntered:
		return d.handleText(ctx, e)
	case ShortReferenceCommand:
		return d.handleShortReference(ctx, e)
	default:
		slog.Warn("unhandled event type", "user_id", event.Owner())
		return nil
	}
}

func eventType(event Event) string {
	switch event.(type) {
	case StartCommand:
		return "start"
	case DocumentUploaded:
		return "document"
	case ButtonSelected:
		return "button"
	case TextEntered:
		return "text"
	case ShortReferenceCommand:
		return "short_reference"
	default:
		return "unknown"
	}
}

func (d *Dispatcher) handleStart(_ StartCommand) []Effect {
	return []Effect{ReplyText{Text: welcomeMessage, Markdown: true, MainMenu: true}}
}

// handleDocument stages a document for upload. The first document of a flow
// creates the session and asks for a category; further documents join the
// staged batch.
func (d *Dispatcher) handleDocument(ctx context.Context, e DocumentUploaded) []Effect {
	record := &store.FileRecord{
		FileUniqueID: e.FileUniqueID,
		FileID:       e.FileID,
		OwnerID:      e.OwnerID,
		FileName:     e.FileName,
	}

	if sess, ok := d.sessions.Get(e.OwnerID); ok {
		if sess.State != StateAwaitingCategoryChoice {
			return []Effect{ReplyText{Text: msgFinishCurrentAction}}
		}
		sess.PendingFiles = append(sess.PendingFiles, record)
		// The follow-up document message is removed to keep the chat tidy;
		// the staged batch is acknowledged instead.
		return []Effect{DeleteOriginalMessage{}, ReplyText{Text: msgAddedToBatch}}
	}

	categories, err := d.store.ListCategories(ctx, e.OwnerID)
	if err != nil {
		return d.fault(err, e.OwnerID)
	}

	sess := d.sessions.Start(e.OwnerID, StateAwaitingCategoryChoice)
	sess.PendingFiles = append(sess.PendingFiles, record)
	return []Effect{ReplyText{Text: msgChooseCategory, Keyboard: categoryChoiceKeyboard(categories)}}
}

func (d *Dispatcher) handleButton(ctx context.Context, e ButtonSelected) []Effect {
	sess, ok := d.sessions.Get(e.OwnerID)
	if !ok {
		// A press on a keyboard whose flow is already gone; just remove it.
		return []Effect{DeleteOriginalMessage{}}
	}

	switch sess.State {
	case StateAwaitingCategoryChoice:
		if e.Payload == LabelNewCategory {
			sess.State = StateAwaitingNewCategoryName
			return []Effect{DeleteOriginalMessage{}, ReplyText{Text: msgEnterCategoryName}}
		}
		return d.commit(ctx, sess, e.Payload, true)

	case StateAwaitingRetrievalCategory:
		if e.Payload == LabelCancel {
			d.sessions.Finish(e.OwnerID)
			return []Effect{DeleteOriginalMessage{}}
		}
		files, err := d.store.ListCategoryFiles(ctx, e.Payload, e.OwnerID)
		if stderrors.Is(err, store.ErrNoCategoryFiles) {
			d.sessions.Finish(e.OwnerID)
			return []Effect{DeleteOriginalMessage{}, ReplyText{Text: msgNoFilesYet}}
		}
		if err != nil {
			return d.fault(err, e.OwnerID)
		}
		d.sessions.Finish(e.OwnerID)
		fileIDs := make([]string, 0, len(files))
		for _, file := range files {
			fileIDs = append(fileIDs, file.FileID)
		}
		return []Effect{DeleteOriginalMessage{}, ReplyAttachments{FileIDs: fileIDs}}

	case StateAwaitingDeletionCategory:
		if e.Payload == LabelCancel {
			d.sessions.Finish(e.OwnerID)
			return []Effect{DeleteOriginalMessage{}}
		}
		if err := d.store.DeleteCategoryFiles(ctx, e.Payload, e.OwnerID); err != nil {
			return d.fault(err, e.OwnerID)
		}
		d.sessions.Finish(e.OwnerID)
		return []Effect{DeleteOriginalMessage{}, ReplyText{Text: msgCategoryDeleted(e.Payload)}}

	default:
		return []Effect{DeleteOriginalMessage{}}
	}
}

func (d *Dispatcher) handleText(ctx context.Context, e TextEntered) []Effect {
	text := strings.TrimSpace(e.Text)

	if sess, ok := d.sessions.Get(e.OwnerID); ok {
		if sess.State == StateAwaitingNewCategoryName {
			if text == "" || text == LabelNewCategory || text == LabelCancel {
				// No progress; the user may retry.
				return []Effect{ReplyText{Text: msgIncorrectCategoryName}}
			}
			return d.commit(ctx, sess, text, false)
		}
		// A flow is in progress; flow-starting commands are rejected,
		// anything else is ignored.
		switch text {
		case LabelMyFiles, LabelGetCategory, LabelDeleteCategory:
			return []Effect{ReplyText{Text: msgFinishCurrentAction}}
		}
		return nil
	}

	switch text {
	case LabelMyFiles:
		return d.listOwnedFiles(ctx, e.OwnerID)
	case LabelGetCategory:
		return d.startCategorySelection(ctx, e.OwnerID, StateAwaitingRetrievalCategory, msgChooseGetCategory, msgNoFilesYet)
	case LabelDeleteCategory:
		return d.startCategorySelection(ctx, e.OwnerID, StateAwaitingDeletionCategory, msgChooseDeleteCategory, msgNoCategoriesToDelete)
	default:
		return nil
	}
}

// handleShortReference serves the stateless /f and /d commands. They resolve
// in any session state and never touch the session.
func (d *Dispatcher) handleShortReference(ctx context.Context, e ShortReferenceCommand) []Effect {
	id, err := ref.Parse(e.RawRef)
	if err != nil {
		return []Effect{ReplyText{Text: msgInvalidReference}}
	}

	switch e.Kind {
	case CommandFetch:
		file, err := d.store.GetFile(ctx, id, e.OwnerID)
		if stderrors.Is(err, store.ErrFileNotFound) {
			return []Effect{ReplyText{Text: msgFileNotFound}}
		}
		if err != nil {
			return d.fault(err, e.OwnerID)
		}
		return []Effect{ReplyAttachments{FileIDs: []string{file.FileID}}}

	case CommandDelete:
		err := d.store.DeleteFile(ctx, id, e.OwnerID)
		if stderrors.Is(err, store.ErrFileNotFound) {
			return []Effect{ReplyText{Text: msgFileNotFound}}
		}
		if err != nil {
			return d.fault(err, e.OwnerID)
		}
		return []Effect{ReplyText{Text: msgFileDeleted}}

	default:
		return nil
	}
}

func (d *Dispatcher) listOwnedFiles(ctx context.Context, ownerID int64) []Effect {
	files, err := d.store.ListFiles(ctx, ownerID)
	if stderrors.Is(err, store.ErrNoFiles) {
		return []Effect{ReplyText{Text: msgNoFilesYet}}
	}
	if err != nil {
		return d.fault(err, ownerID)
	}

	categories, grouped := store.GroupFilesByCategory(files)
	return []Effect{ReplyText{Text: renderGroupedFiles(categories, grouped), Markdown: true}}
}

// startCategorySelection opens the retrieval or deletion flow. A user with
// zero categories gets an informational message and stays idle.
func (d *Dispatcher) startCategorySelection(ctx context.Context, ownerID int64, state State, prompt, emptyMsg string) []Effect {
	categories, err := d.store.ListCategories(ctx, ownerID)
	if err != nil {
		return d.fault(err, ownerID)
	}
	if len(categories) == 0 {
		return []Effect{ReplyText{Text: emptyMsg}}
	}

	d.sessions.Start(ownerID, state)
	return []Effect{ReplyText{Text: prompt, Keyboard: categorySelectKeyboard(categories)}}
}

// commit persists the staged batch under the chosen category. Each file is
// inserted independently: a duplicate is reported by name and does not abort
// the rest. A storage fault keeps the session (and its pending files) so a
// transient failure loses nothing.
func (d *Dispatcher) commit(ctx context.Context, sess *Session, category string, removeKeyboard bool) []Effect {
	effects := []Effect{}
	if removeKeyboard {
		effects = append(effects, DeleteOriginalMessage{})
	}

	allSaved, anySaved := true, false
	for _, file := range sess.PendingFiles {
		record := *file
		record.Category = category
		_, err := d.store.CreateFile(ctx, &record)
		switch {
		case err == nil:
			anySaved = true
			metrics.FilesSaved.Inc()
		case stderrors.Is(err, store.ErrFileAlreadyExists):
			allSaved = false
			metrics.DuplicateFiles.Inc()
			effects = append(effects, ReplyText{Text: msgFileAlreadySaved(file.FileName)})
		default:
			metrics.StorageFaults.Inc()
			slog.Error("failed to save file",
				"user_id", sess.UserID,
				"category", category,
				"error", err,
			)
			return append(effects, ReplyText{Text: msgSomethingWentWrong})
		}
	}

	d.sessions.Finish(sess.UserID)

	switch {
	case allSaved:
		effects = append(effects, ReplyText{Text: msgAllFilesSaved})
	case anySaved:
		// Each duplicate was already reported by name above.
		effects = append(effects, ReplyText{Text: msgRestFilesSaved})
	default:
		effects = append(effects, ReplyText{Text: msgNoFilesSaved})
	}
	return effects
}

func (d *Dispatcher) fault(err error, userID int64) []Effect {
	metrics.StorageFaults.Inc()
	slog.Error("storage fault", "user_id", userID, "error", err)
	return []Effect{ReplyText{Text: msgSomethingWentWrong}}
}
