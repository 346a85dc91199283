// Package events defines the typed event contract of a turn.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - turn_state.*
//   - thinking.*
//   - answer.*
//   - nonverbal.*
//
// Semantics used across the package:
//
//   - Cue: one visible-thinking line, either streamed or a filler.
//   - Clause: append-only answer text emitted in stream order.
//   - Final: terminal immutable text for the current turn phase.
//   - Ended: lifecycle boundary indicating phase completion.
//
// turn_state events
//
//   - TurnStarted (turn_state.started): the question was accepted.
//   - TurnStateChanged (turn_state.changed): the turn moved to a new state.
//   - TurnCompleted (turn_state.completed): the turn finished successfully.
//   - TurnFailed (turn_state.failed): the turn failed; carries the error.
//
// thinking events
//
//   - ThinkingStarted (thinking.started): visible thinking began; carries the
//     advisory behaviour plan.
//   - ThinkingCue (thinking.cue): one thinking line was surfaced.
//   - ThinkingEnded (thinking.ended): visible thinking finished and the
//     answer may be announced.
//
// answer events
//
//   - AnswerHandoff (answer.handoff): the answer is about to be announced with
//     the resolved confidence tier and its descriptor.
//   - AnswerClause (answer.clause): one streamed answer clause.
//   - AnswerFinal (answer.final): the complete spoken answer.
//   - DirectAnswer (answer.direct): the answer of a turn without thinking.
//
// nonverbal events
//
//   - NonverbalGesture (nonverbal.gesture): the confidence gesture that
//     accompanies the answer.
package events
