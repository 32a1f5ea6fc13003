package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/clients/youtube"
	"creator-ops/infrastructure/logger"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	outputThread    = "thread"
	outputLinkedIn  = "linkedin"
	outputInstagram = "instagram"
	outputShorts    = "shorts"

	analysisTemperature = 0.6
	topCommentLimit     = 10
	draftTitleRunes     = 50
)

var allOutputs = []string{outputThread, outputLinkedIn, outputInstagram, outputShorts}

const analysisSystemPrompt = `You turn a creator's long-form video into platform-native posts.
Keep the creator's voice, follow each platform's conventions and add hashtags where they fit.
Respond with a single JSON object and nothing else:
{
  "thread": "X/Twitter thread, tweets separated by ---",
  "linkedin": "LinkedIn post",
  "instagram": "Instagram caption with emojis and hashtags",
  "shorts": { "title": "Shorts title", "description": "Shorts description" },
  "clips": [{ "start": "00:00", "end": "00:30", "hook": "why this moment works" }]
}
Omit keys for formats that were not requested.`

// IAnalysisUsecase generates repurposed drafts from one mirrored video.
type IAnalysisUsecase interface {
	Analyze(ctx context.Context, userID, videoID string, outputs []string) (*dto.AnalyzeVideoResponse, error)
}

type AnalysisDeps struct {
	Credentials ICredentials
	Clients     repository.YouTubeFactory
	Videos      repository.IVideo
	Comments    repository.IComment
	Transcripts repository.ITranscript
	Drafts      repository.IDraft
	Generator   repository.ITextGenerator
	Now         func() time.Time
}

type analysisUsecase struct {
	AnalysisDeps
	validate *validator.Validate
}

func NewAnalysisUsecase(deps AnalysisDeps) IAnalysisUsecase {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &analysisUsecase{AnalysisDeps: deps, validate: validator.New()}
}

func (u *analysisUsecase) Analyze(ctx context.Context, userID, videoID string, outputs []string) (*dto.AnalyzeVideoResponse, error) {
	selected, err := selectOutputs(outputs)
	if err != nil {
		return nil, err
	}
	video, err := u.Videos.GetByID(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, model.ErrNotFound)
	}
	log := logger.GetLogger().WithFields(logrus.Fields{"user_id": userID, "video_id": videoID})

	transcript, err := u.Transcripts.Get(ctx, userID, video.YouTubeVideoID)
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		if transcript, err = u.buildTranscript(ctx, userID, video); err != nil {
			return nil, err
		}
		stored, err := u.Transcripts.InsertIfAbsent(ctx, transcript)
		if err != nil {
			log.WithField("error", err).Warn("Error while caching transcript")
		} else if stored != nil {
			transcript = stored
		}
	}

	comments, err := u.Comments.TopByLikes(ctx, userID, video.ID, topCommentLimit)
	if err != nil {
		log.WithField("error", err).Warn("Error while loading top comments")
		comments = nil
	}

	raw, err := u.Generator.GenerateJSON(ctx, analysisSystemPrompt, analysisPrompt(video, transcript, comments, selected), analysisTemperature)
	if err != nil {
		var ge *model.GenerationError
		if !errors.As(err, &ge) {
			err = &model.GenerationError{Kind: model.GenerationTransport, Err: err}
		}
		return nil, err
	}
	content, err := parseGeneratedContent(raw, u.validate)
	if err != nil {
		log.WithField("error", err).Error("Generated content failed validation")
		return nil, err
	}

	drafts := buildDrafts(userID, video, content, selected, u.Now().UTC())
	created, err := u.Drafts.InsertBatch(ctx, drafts)
	if err != nil {
		return nil, err
	}
	log.WithField("drafts", created).WithField("source", transcript.Source).Info("Video analyzed")

	return &dto.AnalyzeVideoResponse{
		Success:          true,
		TranscriptSource: transcript.Source,
		GeneratedContent: content,
		DraftsCreated:    created,
		Clips:            content.Clips,
	}, nil
}

// buildTranscript tries the video's captions and falls back to title and description.
func (u *analysisUsecase) buildTranscript(ctx context.Context, userID string, video *model.RemoteVideo) (*model.Transcript, error) {
	_, token, err := u.Credentials.Authorize(ctx, userID, model.ProviderYouTube)
	if err != nil {
		return nil, err
	}
	t := &model.Transcript{UserID: userID, VideoID: &video.ID, YouTubeVideoID: video.YouTubeVideoID}
	if text, segments, lang, err := u.fetchCaptions(ctx, token, video.YouTubeVideoID); err == nil && text != "" {
		t.Content = text
		t.Segments = segments
		t.Source = model.TranscriptFromCaptions
		t.Language = optional(lang)
		return t, nil
	} else if err != nil {
		logger.GetLogger().WithField("youtube_video_id", video.YouTubeVideoID).WithField("error", err).Info("Captions unavailable, using video metadata")
	}
	t.Content = metadataTranscript(video)
	t.Source = model.TranscriptMetadataOnly
	return t, nil
}

var errNoCaptions = errors.New("no caption tracks")

func (u *analysisUsecase) fetchCaptions(ctx context.Context, token, youtubeVideoID string) (string, []model.TranscriptSegment, string, error) {
	client, err := u.Clients(ctx, token)
	if err != nil {
		return "", nil, "", err
	}
	tracks, err := client.ListCaptionTracks(ctx, youtubeVideoID)
	if err != nil {
		return "", nil, "", err
	}
	track := pickCaptionTrack(tracks)
	if track == nil {
		return "", nil, "", errNoCaptions
	}
	srt, err := client.DownloadCaption(ctx, track.ID, "srt")
	if err != nil {
		return "", nil, "", err
	}
	text, segments := youtube.ParseSRT(srt)
	return text, segments, track.Language, nil
}

// pickCaptionTrack prefers a human English track, then any English track, then the first one.
func pickCaptionTrack(tracks []model.CaptionTrack) *model.CaptionTrack {
	for i := range tracks {
		if isEnglish(tracks[i].Language) && !tracks[i].IsAutoGenerated() {
			return &tracks[i]
		}
	}
	for i := range tracks {
		if isEnglish(tracks[i].Language) {
			return &tracks[i]
		}
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

func isEnglish(lang string) bool {
	lang = strings.ToLower(lang)
	return lang == "en" || strings.HasPrefix(lang, "en-")
}

func metadataTranscript(v *model.RemoteVideo) string {
	desc := v.Description
	if strings.TrimSpace(desc) == "" {
		desc = "No description available."
	}
	return fmt.Sprintf("Video Title: %s\n\nVideo Description: %s", v.Title, desc)
}

func selectOutputs(outputs []string) (map[string]bool, error) {
	if len(outputs) == 0 {
		outputs = allOutputs
	}
	selected := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		switch o = strings.ToLower(strings.TrimSpace(o)); o {
		case outputThread, outputLinkedIn, outputInstagram, outputShorts:
			selected[o] = true
		default:
			return nil, fmt.Errorf("%w: unknown output %q", model.ErrInvalidInput, o)
		}
	}
	return selected, nil
}

func analysisPrompt(v *model.RemoteVideo, t *model.Transcript, comments []model.Comment, selected map[string]bool) string {
	var b strings.Builder
	b.WriteString("Analyze this video and create repurposed content.\n\n")
	fmt.Fprintf(&b, "VIDEO TITLE: %s\n\n", v.Title)
	desc := v.Description
	if desc == "" {
		desc = "N/A"
	}
	fmt.Fprintf(&b, "VIDEO DESCRIPTION: %s\n\n", desc)
	fmt.Fprintf(&b, "TRANSCRIPT:\n%s\n\n", t.Content)

	b.WriteString("TOP AUDIENCE COMMENTS:\n")
	if len(comments) == 0 {
		b.WriteString("No comments yet\n")
	}
	for _, c := range comments {
		b.WriteString(c.Text)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nVIDEO STATS:\n- Views: %d\n- Likes: %d\n- Comments: %d\n\n", v.Views, v.Likes, v.CommentsCount)

	b.WriteString("Generate:\n")
	if selected[outputThread] {
		b.WriteString("- thread: an engaging X/Twitter thread of 5-8 tweets\n")
	}
	if selected[outputLinkedIn] {
		b.WriteString("- linkedin: a LinkedIn post that gives value and invites discussion\n")
	}
	if selected[outputInstagram] {
		b.WriteString("- instagram: an Instagram caption with relevant hashtags\n")
	}
	if selected[outputShorts] {
		b.WriteString("- shorts: a YouTube Shorts title and description\n")
	}
	b.WriteString("- clips: 3 moments that would work as short-form clips, with timestamps when the transcript has them\n")
	return b.String()
}

func buildDrafts(userID string, v *model.RemoteVideo, c *model.GeneratedContent, selected map[string]bool, now time.Time) []model.Draft {
	suffix := truncateRunes(v.Title, draftTitleRunes) + "..."
	videoID := v.ID
	draft := func(prefix, content, platform, kind string) model.Draft {
		return model.Draft{
			UserID:         userID,
			Title:          prefix + suffix,
			Content:        content,
			Platform:       platform,
			Type:           kind,
			Status:         model.DraftStatusDraft,
			RelatedVideoID: &videoID,
			Version:        1,
			CreatedAt:      now,
		}
	}

	var drafts []model.Draft
	if c.Thread != nil && selected[outputThread] {
		drafts = append(drafts, draft("X Thread: ", *c.Thread, "X", "thread"))
	}
	if c.LinkedIn != nil && selected[outputLinkedIn] {
		drafts = append(drafts, draft("LinkedIn: ", *c.LinkedIn, "LinkedIn", "post"))
	}
	if c.Instagram != nil && selected[outputInstagram] {
		drafts = append(drafts, draft("Instagram: ", *c.Instagram, "Instagram", "caption"))
	}
	if c.Shorts != nil && selected[outputShorts] {
		content := fmt.Sprintf("Title: %s\n\nDescription: %s", c.Shorts.Title, c.Shorts.Description)
		drafts = append(drafts, draft("Shorts: ", content, "YouTube", "shorts"))
	}
	return drafts
}
