package messages

// The two editors below implement distinct policies on purpose: AddContext
// is additive and leaves duplicate system messages in place, while
// SwapSystemPrompt is a full replacement that collapses the thread to a
// single system message. Both return fresh threads; the caller's input is
// never modified.

// AddContextToThread splices context into t's system instruction. If t
// contains system messages, the last one gets "\n\n"+context appended to
// its content; earlier system messages are left untouched. If none exist,
// a new system message carrying context alone is inserted at the front.
// A nil or empty thread yields a thread holding only the new system
// message.
//
// The returned thread is a copy. The edited message is cloned before its
// content changes; all other messages alias the input.
func AddContextToThread(t Thread, context string) Thread {
	out := make(Thread, len(t))
	copy(out, t)

	last := -1
	for i, m := range out {
		if m.IsSystem() {
			last = i
		}
	}
	if last < 0 {
		return append(Thread{Construct(context, RoleSystem)}, out...)
	}

	edited := out[last].Clone()
	// an absent or non-string content key is treated as empty
	prev, _ := edited["content"].(string)
	edited["content"] = prev + "\n\n" + context
	out[last] = edited
	return out
}

// AddContext applies AddContextToThread to a normalized value. For a
// batch, every thread is edited independently and batch order is
// preserved.
func AddContext(n Normalized, context string) Normalized {
	if n.isBatch {
		out := make(Batch, len(n.threads))
		for i, t := range n.threads {
			out[i] = AddContextToThread(t, context)
		}
		return NormalizedBatch(out)
	}
	return NormalizedThread(AddContextToThread(n.Thread(), context))
}

// SwapSystemPrompt replaces t's system instruction outright. The last
// system message is replaced by a freshly constructed one carrying
// prompt, and every earlier system message is removed, so exactly one
// remains at the position the formerly-last one ended up after the
// removals. If t has no system message, the new one is inserted at the
// front. Applying the same swap twice yields the same thread as applying
// it once.
//
// Single threads only; batches are not supported by this operation.
func SwapSystemPrompt(t Thread, prompt string) Thread {
	var systems []int
	for i, m := range t {
		if m.IsSystem() {
			systems = append(systems, i)
		}
	}

	out := make(Thread, len(t))
	copy(out, t)

	if len(systems) == 0 {
		return append(Thread{Construct(prompt, RoleSystem)}, out...)
	}

	out[systems[len(systems)-1]] = Construct(prompt, RoleSystem)

	// delete from highest to lowest so pending indices stay valid
	for i := len(systems) - 2; i >= 0; i-- {
		idx := systems[i]
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}
